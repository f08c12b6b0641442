package nodeid

import (
	"slices"
	"strings"
)

// String serializes the Address into its canonical path string representation.
func (a Address) String() string {
	return strings.Join(a.Path, ".")
}

// Equal reports whether both addresses name the same path.
func (a Address) Equal(other Address) bool {
	return slices.Equal(a.Path, other.Path)
}

// HasPrefix reports whether prefix is a, or one of a's ancestors.
func (a Address) HasPrefix(prefix Address) bool {
	if len(prefix.Path) > len(a.Path) {
		return false
	}
	return slices.Equal(a.Path[:len(prefix.Path)], prefix.Path)
}
