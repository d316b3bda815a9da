package phone

import "fmt"

// Format renders a number for display. Eleven digits become
// "+X (XXX) XXX-XX-XX", ten become "(XXX) XXX-XX-XX"; anything else is
// returned unchanged.
func Format(number string) string {
	d := Digits(number)

	switch len(d) {
	case 11:
		return fmt.Sprintf("+%s (%s) %s-%s-%s", d[:1], d[1:4], d[4:7], d[7:9], d[9:11])
	case 10:
		return fmt.Sprintf("(%s) %s-%s-%s", d[:3], d[3:6], d[6:8], d[8:10])
	default:
		return number
	}
}
