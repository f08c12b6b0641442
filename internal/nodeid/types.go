package nodeid

// Address is a dot-separated path of instance names below the system root.
// The zero value addresses the root.
type Address struct {
	Path []string
}

// New builds an address from already-validated segments.
func New(segments ...string) Address {
	return Address{Path: append([]string(nil), segments...)}
}

// IsRoot reports whether the address names the system root.
func (a Address) IsRoot() bool {
	return len(a.Path) == 0
}

// Last returns the final segment, or "" for the root.
func (a Address) Last() string {
	if a.IsRoot() {
		return ""
	}
	return a.Path[len(a.Path)-1]
}

// Parent returns the address one level up. The root is its own parent.
func (a Address) Parent() Address {
	if a.IsRoot() {
		return a
	}
	return New(a.Path[:len(a.Path)-1]...)
}

// Child returns a new address with name appended.
func (a Address) Child(name string) Address {
	p := make([]string, 0, len(a.Path)+1)
	p = append(p, a.Path...)
	return Address{Path: append(p, name)}
}
