// Package pathaddr turns grip's loosely-typed positional arguments into a
// path and a listen address.
package pathaddr

import (
	"os"
	"strings"

	"github.com/docker/go-connections/nat"
)

// Location is a resolved pair of positional arguments. An empty Path means
// the current directory and an empty Address means the configured default.
type Location struct {
	Path    string
	Address string
}

// Resolve interprets the positional arguments of a grip invocation.
// When only one positional is given and it names no file but does look like
// an address carrying a port ("8080", "localhost:8080"), it is treated as the
// address instead of the path.
func Resolve(pathOrAddress, address string) Location {
	if pathOrAddress == "" || address != "" {
		return Location{Path: pathOrAddress, Address: address}
	}

	if pathOrAddress != "-" && !exists(pathOrAddress) {
		if _, port := SplitAddress(pathOrAddress); port != "" {
			return Location{Address: pathOrAddress}
		}
	}

	return Location{Path: pathOrAddress}
}

// SplitAddress splits "host[:port]" or a bare "port" into its components.
// Either component may be empty. An address that cannot be parsed yields
// two empty strings.
func SplitAddress(address string) (host, port string) {
	if address == "" {
		return "", ""
	}

	parts := strings.Split(address, ":")
	if len(parts) > 2 {
		return "", ""
	}

	if parts[0] != "" && !ValidHostname(parts[0]) {
		return "", ""
	}

	if len(parts) == 2 {
		if !ValidPort(parts[1]) {
			return "", ""
		}
		return parts[0], parts[1]
	}

	// A lone component is a port when it can be one, otherwise a host.
	if ValidPort(parts[0]) {
		return "", parts[0]
	}
	return parts[0], ""
}

// ValidPort reports whether s is a TCP port number between 0 and 65535.
func ValidPort(s string) bool {
	if s == "" {
		return false
	}
	_, err := nat.ParsePort(s)
	return err == nil
}

// ValidHostname reports whether host is a syntactically valid DNS name:
// dot-separated labels of 1-63 letters, digits or hyphens, none starting or
// ending with a hyphen, at most 255 characters overall.
func ValidHostname(host string) bool {
	if host == "" || len(host) > 255 {
		return false
	}
	host = strings.TrimSuffix(host, ".")

	for _, label := range strings.Split(host, ".") {
		if !validLabel(label) {
			return false
		}
	}
	return true
}

func validLabel(label string) bool {
	if len(label) == 0 || len(label) > 63 {
		return false
	}
	if label[0] == '-' || label[len(label)-1] == '-' {
		return false
	}
	for i := 0; i < len(label); i++ {
		c := label[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-':
		default:
			return false
		}
	}
	return true
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
