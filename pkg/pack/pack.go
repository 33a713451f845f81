package pack

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alpinehq/sherpa/pkg/hosts"
	"github.com/alpinehq/sherpa/pkg/types"
)

var (
	// ErrPackNotFound indicates no upgrade pack matches the requested
	// stack/kind combination.
	ErrPackNotFound = errors.New("no upgrade pack found")

	// ErrPackAmbiguous indicates more than one upgrade pack matches.
	ErrPackAmbiguous = errors.New("multiple upgrade packs found")
)

// GroupKind selects the stage-building strategy of a grouping.
type GroupKind string

const (
	// GroupKindStandard groups carry explicit per-component processing
	// tasks from the pack.
	GroupKindStandard GroupKind = "standard"

	// GroupKindFunction groups imply a uniform stop/start/restart action
	// instead of explicit tasks.
	GroupKindFunction GroupKind = "function"

	// GroupKindServiceCheck groups run service checks for the services
	// they list.
	GroupKindServiceCheck GroupKind = "service-check"
)

// OrderService is one ordered service entry of a grouping.
type OrderService struct {
	Name       string
	Components []string
}

// ComponentRef names a service/component pair for condition checks.
type ComponentRef struct {
	Service   string `yaml:"service"`
	Component string `yaml:"component"`
}

// Condition is a declarative satisfaction check attached to a grouping.
// A group whose condition is not satisfied by the current run is skipped.
type Condition struct {
	// ServicePresent is satisfied when the named service participates in
	// the run.
	ServicePresent string `yaml:"service_present,omitempty"`

	// ComponentPresent is satisfied when the referenced component
	// resolves to at least one host.
	ComponentPresent *ComponentRef `yaml:"component_present,omitempty"`
}

// IsSatisfied evaluates the condition against the run context and host
// topology.
func (c *Condition) IsSatisfied(ctx *types.UpgradeContext, resolver hosts.Resolver) bool {
	if c.ServicePresent != "" && !ctx.IsServiceSupported(c.ServicePresent) {
		return false
	}
	if c.ComponentPresent != nil {
		ht, err := resolver.MasterAndHosts(c.ComponentPresent.Service, c.ComponentPresent.Component)
		if err != nil || ht == nil || len(ht.Hosts) == 0 {
			return false
		}
	}
	return true
}

// String renders the condition for skip logging.
func (c *Condition) String() string {
	var parts []string
	if c.ServicePresent != "" {
		parts = append(parts, "service_present="+c.ServicePresent)
	}
	if c.ComponentPresent != nil {
		parts = append(parts, fmt.Sprintf("component_present=%s/%s",
			c.ComponentPresent.Service, c.ComponentPresent.Component))
	}
	return strings.Join(parts, ",")
}

// Grouping is one named phase of an upgrade pack: an ordered set of
// services and components plus the flags controlling retry and skip
// behavior for its stages.
type Grouping struct {
	Name  string
	Title string
	Kind  GroupKind
	Scope types.Scope

	Condition *Condition

	// Skippable marks the group's stages as skippable on failure.
	Skippable bool
	// AllowRetry permits retrying failed stages in this group.
	AllowRetry bool
	// AutoSkip permits automatically skipping failed tasks.
	AutoSkip bool
	// ServiceCheck runs service checks after the group's stages.
	ServiceCheck bool

	// Function is the implied action of a function group: stop, start,
	// or restart. Empty for all other groups.
	Function types.TaskKind

	Services []OrderService
}

// Builder returns a fresh stage wrapper builder appropriate to the
// group's kind. serviceCheck is the effective service-check flag for
// this run; non-rolling runs disable it for everything but dedicated
// service-check groups.
func (g *Grouping) Builder(serviceCheck bool) StageWrapperBuilder {
	switch {
	case g.Kind == GroupKindServiceCheck:
		return newServiceCheckBuilder()
	case g.Function != "":
		return newFunctionBuilder(g.Function)
	default:
		return newStandardBuilder(serviceCheck)
	}
}

// ProcessingComponent is the explicit task list an upgrade pack declares
// for one component.
type ProcessingComponent struct {
	Name  string
	Tasks []*types.Task
}

// UpgradePack is the static, pre-loaded definition of how one stack
// transition is orchestrated. Packs are read-only during planning.
type UpgradePack struct {
	Name   string
	Kind   types.UpgradeKind
	Source types.StackID
	Target types.StackID

	Groups []*Grouping

	// DowngradeGroups, when declared, replace Groups for downgrade runs.
	DowngradeGroups []*Grouping

	// Processing maps service then component to its explicit task list.
	Processing map[string]map[string]*ProcessingComponent
}

// GroupsFor returns the grouping list for a direction, in declared order.
func (p *UpgradePack) GroupsFor(d types.Direction) []*Grouping {
	if d.IsDowngrade() && len(p.DowngradeGroups) > 0 {
		return p.DowngradeGroups
	}
	return p.Groups
}

// Suggest picks the single upgrade pack matching the target stack and
// upgrade kind. A preferred pack name, when present in the catalog,
// short-circuits the search (used by tests and operator overrides).
func Suggest(packs []*UpgradePack, target types.StackID, kind types.UpgradeKind, preferred string) (*UpgradePack, error) {
	if preferred != "" {
		for _, p := range packs {
			if p.Name == preferred {
				return p, nil
			}
		}
	}

	var match *UpgradePack
	for _, p := range packs {
		if !p.Target.Equal(target) || p.Kind != kind {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("%w for %s %s", ErrPackAmbiguous, kind, target)
		}
		match = p
	}

	if match == nil {
		return nil, fmt.Errorf("%w for %s %s", ErrPackNotFound, kind, target)
	}
	return match, nil
}
