package phone

import (
	"errors"
	"testing"
)

func TestCheckFile(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		size    int64
		head    []byte
		wantErr error
	}{
		{"plain text", "numbers.txt", 120, []byte("+79123456789\n"), nil},
		{"no extension", "numbers", 10, []byte("89123456789"), nil},
		{"too large", "numbers.txt", MaxFileSize + 1, nil, ErrTooLarge},
		{"wrong extension", "numbers.csv", 10, []byte("a,b"), ErrNotText},
		{"binary content", "numbers.txt", 8, []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}, ErrNotText},
		{"exactly max", "numbers.txt", MaxFileSize, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckFile(tt.file, tt.size, tt.head)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CheckFile error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
