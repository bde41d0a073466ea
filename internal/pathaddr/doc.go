// Package pathaddr resolves grip's positional arguments.
//
// grip accepts up to two positionals, "[<path>] [<address>]", where the
// address has the form host[:port] or just a port. Because both are
// optional, a single positional is ambiguous: "grip docs" renders a
// directory while "grip 8080" serves the current directory on port 8080.
//
// Example usage:
//
//	loc := pathaddr.Resolve("8080", "")
//	// loc.Path == "", loc.Address == "8080"
//
//	host, port := pathaddr.SplitAddress("0.0.0.0:80")
//	// host == "0.0.0.0", port == "80"
//
// Port numbers are validated with the same parser Docker uses for port
// specs, so "65536" or "80a" are rejected.
package pathaddr
