package address

import "strings"

const (
	maxDomainLen   = 253
	maxLabelLen    = 63
	minTopLevelLen = 2
	maxPortDigits  = 5
	maxPort        = 65535
)

// IsOctet reports whether s matches the octet grammar 25[0-5] | 2[0-4]\d | 1?\d?\d.
//
// One- and two-digit forms are accepted as written, leading zero included
// ("0", "00", "07"). Three-digit forms must start with 1, or be 200-255.
func IsOctet(s string) bool {
	if len(s) == 0 || len(s) > 3 || !isDigits(s) {
		return false
	}
	if len(s) < 3 {
		return true
	}

	switch s[0] {
	case '1':
		return true
	case '2':
		if s[1] < '5' {
			return true
		}
		return s[1] == '5' && s[2] <= '5'
	default:
		return false
	}
}

// IsIPv4 reports whether s is four octets joined by exactly three dots.
func IsIPv4(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return false
	}
	for _, p := range parts {
		if !IsOctet(p) {
			return false
		}
	}
	return true
}

// IsLabel reports whether s is a 1-63 character domain label made of letters,
// digits and hyphens that starts and ends with a letter or digit.
func IsLabel(s string) bool {
	if len(s) == 0 || len(s) > maxLabelLen {
		return false
	}
	if !isAlphanumeric(s[0]) || !isAlphanumeric(s[len(s)-1]) {
		return false
	}
	for i := 1; i < len(s)-1; i++ {
		if !isAlphanumeric(s[i]) && s[i] != '-' {
			return false
		}
	}
	return true
}

// IsTopLevelLabel reports whether s is 2-63 ASCII letters.
func IsTopLevelLabel(s string) bool {
	if len(s) < minTopLevelLen || len(s) > maxLabelLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isLetter(s[i]) {
			return false
		}
	}
	return true
}

// IsDomain reports whether s is at most 253 characters, made of one or more
// labels each followed by a dot, and ends with a top-level label.
// A single label such as "localhost" is not a domain.
func IsDomain(s string) bool {
	if len(s) == 0 || len(s) > maxDomainLen {
		return false
	}

	labels := strings.Split(s, ".")
	if len(labels) < 2 {
		return false
	}

	last := len(labels) - 1
	for _, label := range labels[:last] {
		if !IsLabel(label) {
			return false
		}
	}
	return IsTopLevelLabel(labels[last])
}

// IsPort reports whether s is 1-5 decimal digits with a value in [1, 65535].
func IsPort(s string) bool {
	_, ok := parsePort(s)
	return ok
}

func parsePort(s string) (uint16, bool) {
	if len(s) == 0 || len(s) > maxPortDigits || !isDigits(s) {
		return 0, false
	}

	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
	}
	if n < 1 || n > maxPort {
		return 0, false
	}
	return uint16(n), true
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlphanumeric(c byte) bool {
	return isLetter(c) || isDigit(c)
}
