/*
Package hosts resolves the target hosts for services and components
during upgrade planning.

The Resolver interface is the contract the sequence planner consumes:
given a service and component it returns the ordered host set, the
active/standby designations for HA components, and any currently
unhealthy hosts. ClusterResolver implements it over a cluster topology
snapshot loaded from storage.

Resolution failures are expressed as a nil result rather than an error;
a component with no resolvable hosts is skipped by the planner and the
run continues without it.
*/
package hosts
