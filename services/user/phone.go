package user

import "strings"

// NormalizePhone converts a Russian mobile number written as +7..., 8... or a bare
// ten-digit 9... number into +7XXXXXXXXXX. Spaces, dashes and parentheses are ignored.
func NormalizePhone(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	plus := strings.HasPrefix(s, "+")
	if plus {
		s = s[1:]
	}

	var digits strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		case r == ' ', r == '-', r == '(', r == ')':
		default:
			return "", false
		}
	}

	d := digits.String()
	switch {
	case len(d) == 11 && d[0] == '7':
	case len(d) == 11 && d[0] == '8' && !plus:
		d = "7" + d[1:]
	case len(d) == 10 && d[0] == '9' && !plus:
		d = "7" + d
	default:
		return "", false
	}
	return "+" + d, true
}
