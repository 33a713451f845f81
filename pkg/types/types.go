package types

import (
	"fmt"
	"strings"
	"time"
)

// Direction indicates whether a run moves a cluster forward or backward
// between repository versions.
type Direction string

const (
	DirectionUpgrade   Direction = "upgrade"
	DirectionDowngrade Direction = "downgrade"
)

// IsDowngrade reports whether the direction is a downgrade.
func (d Direction) IsDowngrade() bool {
	return d == DirectionDowngrade
}

// Text returns the noun form of the direction ("upgrade"/"downgrade"),
// capitalized when proper is true.
func (d Direction) Text(proper bool) string {
	return properCase(string(d), proper)
}

// Past returns the past tense of the direction ("upgraded"/"downgraded").
func (d Direction) Past(proper bool) string {
	return properCase(string(d)+"d", proper)
}

// Plural returns the plural form of the direction ("upgrades"/"downgrades").
func (d Direction) Plural(proper bool) string {
	return properCase(string(d)+"s", proper)
}

// Verb returns the verbal noun of the direction ("upgrading"/"downgrading").
func (d Direction) Verb(proper bool) string {
	return properCase(strings.TrimSuffix(string(d), "e")+"ing", proper)
}

// Preposition returns the preposition used when rendering version
// transitions ("to" for upgrades, "back to" for downgrades).
func (d Direction) Preposition() string {
	if d.IsDowngrade() {
		return "back to"
	}
	return "to"
}

func properCase(s string, proper bool) string {
	if !proper || s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// UpgradeKind selects the orchestration strategy for a run.
type UpgradeKind string

const (
	// UpgradeKindRolling upgrades one component at a time using the
	// explicit per-component tasks declared in the upgrade pack.
	UpgradeKindRolling UpgradeKind = "rolling"

	// UpgradeKindNonRolling performs bulk stop/upgrade/start phases,
	// synthesizing tasks where the pack is silent.
	UpgradeKindNonRolling UpgradeKind = "non-rolling"

	// UpgradeKindHostOrdered walks hosts instead of components.
	UpgradeKindHostOrdered UpgradeKind = "host-ordered"
)

// Scope restricts which groups of an upgrade pack participate in a run.
type Scope string

const (
	// ScopeAny groups participate in every run.
	ScopeAny Scope = "any"

	// ScopePartial groups participate only in partial (patch) runs.
	ScopePartial Scope = "partial"

	// ScopeComplete groups participate only in full-cluster runs.
	ScopeComplete Scope = "complete"
)

// StackID identifies a major platform stack, such as HDP-2.3.
type StackID struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
}

// String returns the canonical NAME-VERSION form of the stack.
func (s StackID) String() string {
	return fmt.Sprintf("%s-%s", s.Name, s.Version)
}

// Equal reports whether two stack identities match.
func (s StackID) Equal(o StackID) bool {
	return s.Name == o.Name && s.Version == o.Version
}

// ParseStackID parses the NAME-VERSION form produced by String.
func ParseStackID(s string) (StackID, error) {
	idx := strings.LastIndex(s, "-")
	if idx <= 0 || idx == len(s)-1 {
		return StackID{}, fmt.Errorf("invalid stack id: %q", s)
	}
	return StackID{Name: s[:idx], Version: s[idx+1:]}, nil
}

// RepositoryVersion binds a concrete repository build (e.g. 2.3.0.0-1234)
// to the stack it belongs to.
type RepositoryVersion struct {
	Stack   StackID `json:"stack" yaml:"stack"`
	Version string  `json:"version" yaml:"version"`
}

// TaskKind enumerates the unit-of-work types a stage can carry.
type TaskKind string

const (
	TaskKindManual       TaskKind = "manual"
	TaskKindStop         TaskKind = "stop"
	TaskKindStart        TaskKind = "start"
	TaskKindRestart      TaskKind = "restart"
	TaskKindExecute      TaskKind = "execute"
	TaskKindConfigure    TaskKind = "configure"
	TaskKindServiceCheck TaskKind = "service-check"
)

// Task is one unit of work for a component. Summary and Messages may
// contain {{...}} placeholder tokens that are resolved during planning.
type Task struct {
	Kind     TaskKind `json:"kind" yaml:"kind"`
	Summary  string   `json:"summary,omitempty" yaml:"summary,omitempty"`
	Messages []string `json:"messages,omitempty" yaml:"messages,omitempty"`
}

// HostsType is the resolved host set for one service/component, with
// optional master/secondary designations and any currently unhealthy hosts.
type HostsType struct {
	Hosts     []string `json:"hosts"`
	Master    string   `json:"master,omitempty"`
	Secondary string   `json:"secondary,omitempty"`
	Unhealthy []string `json:"unhealthy,omitempty"`
}

// TaskWrapper binds a task list to a specific service/component/host set.
type TaskWrapper struct {
	ID        string            `json:"id"`
	Service   string            `json:"service"`
	Component string            `json:"component,omitempty"`
	Hosts     []string          `json:"hosts"`
	Params    map[string]string `json:"params,omitempty"`
	Tasks     []*Task           `json:"tasks"`
}

// StageWrapper is one executable step of the plan. Tasks within a stage may
// run concurrently across their hosts; stages run strictly in order.
type StageWrapper struct {
	Text  string         `json:"text,omitempty"`
	Tasks []*TaskWrapper `json:"tasks"`
}

// UpgradeState tracks a component host's progress through a run.
type UpgradeState string

const (
	UpgradeStateNone       UpgradeState = "none"
	UpgradeStatePending    UpgradeState = "pending"
	UpgradeStateInProgress UpgradeState = "in_progress"
	UpgradeStateComplete   UpgradeState = "complete"
	UpgradeStateFailed     UpgradeState = "failed"
)

// VersionUnknown is recorded for component hosts that do not advertise a
// version of their own.
const VersionUnknown = "UNKNOWN"

// HostRole marks the HA role a component host currently holds.
type HostRole string

const (
	HostRoleNone    HostRole = ""
	HostRoleActive  HostRole = "active"
	HostRoleStandby HostRole = "standby"
)

// ComponentHost is one deployment of a component on a host.
type ComponentHost struct {
	Host         string       `json:"host"`
	Role         HostRole     `json:"role,omitempty"`
	Healthy      bool         `json:"healthy"`
	Version      string       `json:"version,omitempty"`
	UpgradeState UpgradeState `json:"upgrade_state,omitempty"`
}

// Component is one process type of a service (e.g. HDFS/NAMENODE).
type Component struct {
	Name  string           `json:"name"`
	Hosts []*ComponentHost `json:"hosts"`
}

// Service is one installed service of a cluster.
type Service struct {
	Name       string       `json:"name"`
	ClientOnly bool         `json:"client_only,omitempty"`
	Components []*Component `json:"components"`
}

// Component returns the named component, or nil.
func (s *Service) Component(name string) *Component {
	for _, c := range s.Components {
		if strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}

// Cluster is the persisted topology a run operates on.
type Cluster struct {
	Name         string     `json:"name"`
	CurrentStack StackID    `json:"current_stack"`
	DesiredStack StackID    `json:"desired_stack"`
	Services     []*Service `json:"services"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Service returns the named service, or nil.
func (c *Cluster) Service(name string) *Service {
	for _, s := range c.Services {
		if strings.EqualFold(s.Name, name) {
			return s
		}
	}
	return nil
}

// ConfigGroup is one configuration type (e.g. hdfs-site) with its live
// property values.
type ConfigGroup struct {
	Type       string            `json:"type"`
	Properties map[string]string `json:"properties"`
}

// ConfigRevision is one recorded configuration set for a service on a
// stack, created by the merge engine and restored on downgrade.
type ConfigRevision struct {
	ID        string                       `json:"id"`
	Cluster   string                       `json:"cluster"`
	Stack     StackID                      `json:"stack"`
	Service   string                       `json:"service"`
	Configs   map[string]map[string]string `json:"configs"`
	Actor     string                       `json:"actor"`
	Note      string                       `json:"note"`
	CreatedAt time.Time                    `json:"created_at"`
}
