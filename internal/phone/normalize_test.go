package phone

import (
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtractNumber(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"embedded", "call me at +79123456789 now", "+79123456789"},
		{"no match", "no numbers here", "no numbers here"},
		{"formatted", "+7 (912) 345-67-89", "+7 (912) 345-67-89"},
		{"trimmed passthrough", "   12345   ", "12345"},
		{"first of two", "8 912 345 67 89 or 8 800 555 35 35", "8 912 345 67 89"},
		{"trailing separator dropped", "89123456789-", "89123456789"},
		{"too short", "tel 123-45-67", "tel 123-45-67"},
		{"no-break spaces", "tel: +7\u00a0912\u00a0345\u00a067\u00a089 ok", "+7\u00a0912\u00a0345\u00a067\u00a089"},
		{"byte order mark", "\ufeff8\ufeff912\ufeff3456789 (home)", "8\ufeff912\ufeff3456789"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractNumber(tt.line); got != tt.want {
				t.Errorf("ExtractNumber(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestParseNumbers(t *testing.T) {
	text := "+79123456789\n\n   \ncall me at 8 (912) 345-67-89 please\r\nno numbers here\n12345\n"

	got := ParseNumbers(text)
	want := []string{
		"+79123456789",
		"8 (912) 345-67-89",
		"no numbers here",
		"12345",
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseNumbers mismatch (-want +got):\n%s", diff)
	}
}

func TestParseNumbers_PreservesNonBlankLineCount(t *testing.T) {
	inputs := []string{
		"",
		"\n\n\n",
		"a\nb\nc",
		"  +7 912 345 67 89  \n\t\n x \n",
		"1\n2\n3\n4\n5\n6\n7\n8\n9\n10",
	}

	for _, in := range inputs {
		nonBlank := 0
		for _, line := range strings.Split(in, "\n") {
			if strings.TrimSpace(line) != "" {
				nonBlank++
			}
		}
		if got := len(ParseNumbers(in)); got != nonBlank {
			t.Errorf("ParseNumbers(%q) returned %d lines, want %d", in, got, nonBlank)
		}
	}
}

func TestParseNumbers_KeepsDuplicates(t *testing.T) {
	got := ParseNumbers("+79123456789\n+79123456789")
	if len(got) != 2 {
		t.Errorf("expected duplicates to be kept, got %v", got)
	}
}

func TestReadNumbersFromFile(t *testing.T) {
	content := "+79123456789\r\n\r\nphone: 8-912-345-67-89\r\n"

	tmpfile, err := os.CreateTemp("", "numbers")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Remove(tmpfile.Name()) }()

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	numbers, err := ReadNumbersFromFile(tmpfile.Name())
	if err != nil {
		t.Fatalf("ReadNumbersFromFile failed: %v", err)
	}

	want := []string{"+79123456789", "8-912-345-67-89"}
	if diff := cmp.Diff(want, numbers); diff != "" {
		t.Errorf("ReadNumbersFromFile mismatch (-want +got):\n%s", diff)
	}
}

func TestReadNumbersFromFile_NonExistent(t *testing.T) {
	if _, err := ReadNumbersFromFile("non_existent_file.txt"); err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}
