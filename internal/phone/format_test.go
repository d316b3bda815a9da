package phone

import "testing"

func TestFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"79123456789", "+7 (912) 345-67-89"},
		{"+7 912 345 67 89", "+7 (912) 345-67-89"},
		{"9123456789", "(912) 345-67-89"},
		{"12345", "12345"},
		{"+44 20 7946 0958 12", "+44 20 7946 0958 12"},
	}

	for _, tt := range tests {
		if got := Format(tt.in); got != tt.want {
			t.Errorf("Format(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
