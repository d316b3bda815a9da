package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Sink delivers an export payload to the user
type Sink interface {
	Deliver(filename, contentType string, payload []byte) error
}

// DirSink writes payloads as files into Dir
type DirSink struct {
	Dir string
}

// Deliver implements Sink
func (s DirSink) Deliver(filename, contentType string, payload []byte) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(s.Dir, filepath.Base(filename))
	if err := os.WriteFile(path, payload, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriterSink streams payloads to W, ignoring the filename
type WriterSink struct {
	W io.Writer
}

// Deliver implements Sink
func (s WriterSink) Deliver(filename, contentType string, payload []byte) error {
	if _, err := s.W.Write(payload); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}
	if len(payload) > 0 && payload[len(payload)-1] != '\n' {
		_, err := s.W.Write([]byte("\n"))
		return err
	}
	return nil
}

// Deliver renders rows and hands them to sink under "<subject>.<format>"
func Deliver(sink Sink, subject string, rows []Row, format Format) (string, error) {
	payload, err := Export(rows, format)
	if err != nil {
		return "", err
	}
	filename := Filename(subject, format)
	if err := sink.Deliver(filename, ContentType(format), []byte(payload)); err != nil {
		return "", err
	}
	return filename, nil
}
