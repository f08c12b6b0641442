/*
Package instance holds the elaborated system: a tree of component instances
built from one declared system implementation, the declared connection
instances with their per-level reference chains, and the system operation
modes.

Build resolves every path and name of the declared overlay once, so that the
flow engine only ever navigates pointers. Flow instances produced later are
stored back on the owning ComponentInstance.
*/
package instance
