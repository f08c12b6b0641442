package nodeid

import (
	"fmt"
	"regexp"
	"strings"
)

// segmentRegex matches a single AADL-style identifier.
var segmentRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Parse creates an Address from its canonical string representation. The
// empty string parses to the root address.
func Parse(raw string) (Address, error) {
	if raw == "" {
		return Address{}, nil
	}

	var addr Address
	for _, segment := range strings.Split(raw, ".") {
		if segment == "" {
			return Address{}, fmt.Errorf("path %q contains an empty segment", raw)
		}
		if !segmentRegex.MatchString(segment) {
			return Address{}, fmt.Errorf("invalid path segment %q in %q", segment, raw)
		}
		addr.Path = append(addr.Path, segment)
	}
	return addr, nil
}

// MustParse is like Parse but panics on malformed input. Intended for
// addresses generated by the program itself and for tests.
func MustParse(raw string) Address {
	addr, err := Parse(raw)
	if err != nil {
		panic(fmt.Sprintf("nodeid: %v", err))
	}
	return addr
}
