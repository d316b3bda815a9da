// Package phone extracts, validates and formats phone-number strings.
package phone

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// numberPattern matches an optional '+', a digit, at least eight digits or
// separators, and a closing digit. Separators include Unicode spaces.
var numberPattern = regexp.MustCompile(`\+?\d[\d\s\p{Zs}\x{FEFF}()-]{8,}\d`)

// ExtractNumber returns the first phone-like substring of line, or the
// trimmed line when nothing matches.
func ExtractNumber(line string) string {
	line = strings.TrimSpace(line)
	if m := numberPattern.FindString(line); m != "" {
		return m
	}
	return line
}

// ParseNumbers returns one normalized candidate per non-blank line of text.
// It never fails and never drops or merges non-blank lines.
func ParseNumbers(text string) []string {
	var numbers []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		numbers = append(numbers, ExtractNumber(line))
	}
	return numbers
}

// ReadNumbers applies ParseNumbers line by line to a stream
func ReadNumbers(r io.Reader) ([]string, error) {
	var numbers []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxFileSize)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		numbers = append(numbers, ExtractNumber(line))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan input: %w", err)
	}

	return numbers, nil
}

// ReadNumbersFromFile reads candidates from a file (one per line)
func ReadNumbersFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return ReadNumbers(file)
}
