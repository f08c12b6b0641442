/*
Package flows instantiates declared end-to-end flows against an elaborated
system.

For every component instance, in pre-order, and every end-to-end flow its
implementation declares, the engine walks the flow's segments across
hierarchy levels with an explicit continuation stack. Each subcomponent flow
specification descends into the matching flow implementations, each pending
run of declared connections is matched against the connection instances,
and each nested end-to-end flow is spliced in once per alternative. Every
ambiguity forks the instance under construction, so that one declaration
yields one instance per concrete realizable path. Finished instances are
scoped to the system operation modes in which all of their members exist and
are registered on the owning component instance.

Branch failures are reported through a diag.Reporter and only drop the
affected branch.
*/
package flows
