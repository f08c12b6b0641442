/*
Package nodeid provides the structured path used to address instances in the
elaborated system, e.g. `radar.proc.tracker` for a component instance or
`radar.in_to_out` for a flow specification instance.

Paths are relative to the system root: the root itself is the empty path.
Parsing and formatting live here so that the HCL loader, the instance builder
and the report all agree on one canonical form.
*/
package nodeid
