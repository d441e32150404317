// Package address validates game-server addresses of the form host[:port],
// where host is an IPv4 literal or a domain name.
package address

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
)

// Kind is the grammar the host of a valid address matched.
type Kind string

const (
	KindIPv4   Kind = "ipv4"
	KindDomain Kind = "domain"
)

// Reason explains why an address was rejected.
type Reason string

const (
	ReasonEmpty         Reason = "empty"
	ReasonWhitespace    Reason = "whitespace"
	ReasonBracket       Reason = "bracket"
	ReasonTooManyColons Reason = "too_many_colons"
	ReasonInvalidPort   Reason = "invalid_port"
	ReasonInvalidHost   Reason = "invalid_host"
)

var reasonMessages = map[Reason]string{
	ReasonEmpty:         "address is empty",
	ReasonWhitespace:    "address must not contain whitespace",
	ReasonBracket:       "bracketed IPv6 addresses are not supported",
	ReasonTooManyColons: "address must contain at most one ':'",
	ReasonInvalidPort:   "port must be a number between 1 and 65535",
	ReasonInvalidHost:   "host must be an IPv4 address or a domain name",
}

// Message returns a human readable description of the reason.
func (r Reason) Message() string {
	if msg, ok := reasonMessages[r]; ok {
		return msg
	}
	return string(r)
}

// InvalidError is returned by Parse for rejected input.
type InvalidError struct {
	Input  string
	Reason Reason
}

func (e *InvalidError) Error() string {
	return "invalid address " + strconv.Quote(e.Input) + ": " + e.Reason.Message()
}

// ReasonOf returns the rejection reason carried by err, or "" if err is not an *InvalidError.
func ReasonOf(err error) Reason {
	var ie *InvalidError
	if errors.As(err, &ie) {
		return ie.Reason
	}
	return ""
}

// Address is the decomposition of a valid host[:port] string.
type Address struct {
	Raw     string `json:"raw"`
	Host    string `json:"host"`
	Port    uint16 `json:"port,omitempty"`
	HasPort bool   `json:"has_port"`
	Kind    Kind   `json:"kind"`
}

// String renders host or host:port.
func (a Address) String() string {
	if !a.HasPort {
		return a.Host
	}
	return a.Host + ":" + strconv.Itoa(int(a.Port))
}

// isSpace matches Unicode white space plus U+FEFF, which browsers also
// strip from pasted input.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// Trim strips the surrounding white space Parse ignores.
func Trim(input string) string {
	return strings.TrimFunc(input, isSpace)
}

// IsValid reports whether input is a well-formed server address.
// Surrounding whitespace is ignored.
func IsValid(input string) bool {
	_, err := Parse(input)
	return err == nil
}

// Parse trims input and decomposes it into host and optional port.
// The returned error is always an *InvalidError.
func Parse(input string) (Address, error) {
	s := Trim(input)
	if s == "" {
		return Address{}, &InvalidError{Input: input, Reason: ReasonEmpty}
	}
	if strings.IndexFunc(s, isSpace) >= 0 {
		return Address{}, &InvalidError{Input: input, Reason: ReasonWhitespace}
	}
	if strings.ContainsAny(s, "[]") {
		return Address{}, &InvalidError{Input: input, Reason: ReasonBracket}
	}

	parts := strings.Split(s, ":")
	if len(parts) > 2 {
		return Address{}, &InvalidError{Input: input, Reason: ReasonTooManyColons}
	}

	addr := Address{Raw: s, Host: parts[0]}

	// the port decides the result regardless of the host
	if len(parts) == 2 {
		port, ok := parsePort(parts[1])
		if !ok {
			return Address{}, &InvalidError{Input: input, Reason: ReasonInvalidPort}
		}
		addr.Port = port
		addr.HasPort = true
	}

	switch {
	case IsIPv4(addr.Host):
		addr.Kind = KindIPv4
	case IsDomain(addr.Host):
		addr.Kind = KindDomain
	default:
		return Address{}, &InvalidError{Input: input, Reason: ReasonInvalidHost}
	}

	return addr, nil
}
