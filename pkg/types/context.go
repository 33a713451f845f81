package types

import (
	"sort"
	"strings"
)

// UpgradeContext bundles everything a single planning run needs: direction,
// strategy, participating services, and per-service repository versions.
// It also accumulates informational findings made during planning (unhealthy
// hosts, resolved display names) so the planner itself stays side-effect
// free with respect to its collaborators.
//
// A context is owned by the caller and must not be shared between
// concurrent planning runs.
type UpgradeContext struct {
	Cluster   string
	Direction Direction
	Kind      UpgradeKind
	Scope     Scope

	// Topology is the cluster snapshot the run operates on.
	Topology *Cluster

	// Repository is the repository version associated with the run as a
	// whole, used when rendering the {{version}} token.
	Repository RepositoryVersion

	// Supported lists the services participating in this run.
	Supported []string

	// Source and Target hold the per-service repository versions the run
	// moves between.
	Source map[string]RepositoryVersion
	Target map[string]RepositoryVersion

	unhealthy        map[string]struct{}
	serviceDisplay   map[string]string
	componentDisplay map[string]string
}

// IsServiceSupported reports whether the named service participates in
// this run. Matching is case-insensitive.
func (c *UpgradeContext) IsServiceSupported(service string) bool {
	for _, s := range c.Supported {
		if strings.EqualFold(s, service) {
			return true
		}
	}
	return false
}

// IsScoped reports whether a group with the given scope participates in
// this run. ScopeAny groups always do.
func (c *UpgradeContext) IsScoped(s Scope) bool {
	if s == ScopeAny || s == "" {
		return true
	}
	return s == c.Scope
}

// SourceRepository returns the repository version the named service is
// moving from.
func (c *UpgradeContext) SourceRepository(service string) (RepositoryVersion, bool) {
	rv, ok := c.Source[service]
	return rv, ok
}

// TargetRepository returns the repository version the named service is
// moving to.
func (c *UpgradeContext) TargetRepository(service string) (RepositoryVersion, bool) {
	rv, ok := c.Target[service]
	return rv, ok
}

// AddUnhealthy records hosts found unhealthy during planning. The set is
// informational; planning continues.
func (c *UpgradeContext) AddUnhealthy(hosts []string) {
	if c.unhealthy == nil {
		c.unhealthy = make(map[string]struct{})
	}
	for _, h := range hosts {
		c.unhealthy[h] = struct{}{}
	}
}

// UnhealthyHosts returns the accumulated unhealthy hosts in sorted order.
func (c *UpgradeContext) UnhealthyHosts() []string {
	hosts := make([]string, 0, len(c.unhealthy))
	for h := range c.unhealthy {
		hosts = append(hosts, h)
	}
	sort.Strings(hosts)
	return hosts
}

// SetServiceDisplay caches the display name resolved for a service.
func (c *UpgradeContext) SetServiceDisplay(service, display string) {
	if c.serviceDisplay == nil {
		c.serviceDisplay = make(map[string]string)
	}
	c.serviceDisplay[service] = display
}

// ServiceDisplay returns the cached display name for a service, falling
// back to the service name itself.
func (c *UpgradeContext) ServiceDisplay(service string) string {
	if d, ok := c.serviceDisplay[service]; ok {
		return d
	}
	return service
}

// SetComponentDisplay caches the display name resolved for a component.
func (c *UpgradeContext) SetComponentDisplay(service, component, display string) {
	if c.componentDisplay == nil {
		c.componentDisplay = make(map[string]string)
	}
	c.componentDisplay[service+"/"+component] = display
}

// ComponentDisplay returns the cached display name for a component,
// falling back to the component name itself.
func (c *UpgradeContext) ComponentDisplay(service, component string) string {
	if d, ok := c.componentDisplay[service+"/"+component]; ok {
		return d
	}
	return component
}
