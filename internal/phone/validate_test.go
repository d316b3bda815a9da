package phone

import "testing"

func TestDigits(t *testing.T) {
	if got := Digits("+7 (912) 345-67-89"); got != "79123456789" {
		t.Errorf("Digits = %q, want 79123456789", got)
	}
	if got := Digits("no digits"); got != "" {
		t.Errorf("Digits = %q, want empty", got)
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"123", false},
		{"+7 (912) 345-67-89", true},
		{"9123456789", true},
		{"912345678", false},
		{"abc1234567890def", true},
		{"", false},
		{"1-2-3-4-5-6-7-8-9", false},
	}

	for _, tt := range tests {
		if got := IsValid(tt.input); got != tt.want {
			t.Errorf("IsValid(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
