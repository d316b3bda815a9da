package phone

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
)

// MaxFileSize is the largest accepted upload
const MaxFileSize = 5 << 20

var (
	// ErrTooLarge is returned for files above MaxFileSize
	ErrTooLarge = errors.New("file too large, maximum size is 5MB")
	// ErrNotText is returned for anything that is not a plain-text file
	ErrNotText = errors.New("file must be a plain-text .txt file")
	// ErrNoNumbers is returned when a file yields no candidates
	ErrNoNumbers = errors.New("no phone numbers found in file")
)

// CheckFile enforces the upload contract before the content is parsed.
// head is the first bytes of the file, used to sniff the content type.
func CheckFile(name string, size int64, head []byte) error {
	if size > MaxFileSize {
		return fmt.Errorf("%s: %w", name, ErrTooLarge)
	}

	ext := strings.ToLower(filepath.Ext(name))
	if ext != "" && ext != ".txt" {
		return fmt.Errorf("%s: %w", name, ErrNotText)
	}

	if len(head) > 0 {
		ct := http.DetectContentType(head)
		if !strings.HasPrefix(ct, "text/plain") {
			return fmt.Errorf("%s (%s): %w", name, ct, ErrNotText)
		}
	}

	return nil
}
