package server

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"syscall"

	"github.com/docker/go-connections/nat"

	"github.com/vyk2rr/grip/internal/apperr"
)

// parsePort validates a port string, falling back to def when empty.
func parsePort(port string, def int) (int, error) {
	if port == "" {
		return def, nil
	}
	n, err := nat.ParsePort(port)
	if err != nil {
		return 0, apperr.Invalid("Invalid port: %s", port)
	}
	return n, nil
}

// CheckPortInUse reports whether host:port cannot be bound right now.
func CheckPortInUse(host string, port int) bool {
	ln, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return true
	}
	_ = ln.Close()
	return false
}

// FindFreePort looks for a bindable port in basePort+1 .. basePort+100.
func FindFreePort(host string, basePort int) (int, bool) {
	for offset := 1; offset <= 100; offset++ {
		candidate := basePort + offset
		if candidate > 65535 {
			break
		}
		if !CheckPortInUse(host, candidate) {
			return candidate, true
		}
	}
	return 0, false
}

// listen binds host:port. Failures are user-correctable, so they are
// reported as validation errors; a busy port comes with a suggestion.
func listen(host string, port int) (net.Listener, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	ln, err := net.Listen("tcp", addr)
	if err == nil {
		return ln, nil
	}

	if errors.Is(err, syscall.EADDRINUSE) {
		msg := fmt.Sprintf("Port %d is already in use", port)
		if suggestion, ok := FindFreePort(host, port); ok {
			msg += fmt.Sprintf(", try %s:%d", host, suggestion)
		}
		return nil, apperr.Wrap(err, msg)
	}
	return nil, apperr.Wrap(err, fmt.Sprintf("Cannot listen on %s: %v", addr, err))
}
