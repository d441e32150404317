package transport

import (
	"context"
	"net"
	"strconv"
)

type Server interface {
	Run() error
	Shutdown(context.Context) error
}

// ValidateAddress reports whether addr is a listen address with a usable port.
// The host part may be empty to listen on every interface.
func ValidateAddress(addr string) bool {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}

	p, err := strconv.Atoi(port)
	if err != nil {
		return false
	}

	return p >= 1 && p <= 65535
}
