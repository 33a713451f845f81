/*
Package types defines the core data structures used throughout Sherpa.

This package contains the fundamental types that represent Sherpa's domain
model: cluster topology, upgrade direction and strategy, stack and
repository identities, and the plan structures (stages, task wrappers,
host sets) that the sequence planner emits. These types are used by all
other packages for planning, configuration reconciliation, and persistence.

# Core Types

Run identity:
  - Direction: upgrade or downgrade, with grammatical helpers used for
    placeholder rendering ({{direction.verb}}, {{direction.past}}, ...)
  - UpgradeKind: rolling, non-rolling, or host-ordered strategy
  - Scope: any, partial, or complete group participation
  - StackID / RepositoryVersion: major platform stack and the concrete
    repository build being moved to or from

Cluster topology:
  - Cluster: named topology with current/desired stack and services
  - Service: installed service with its components
  - Component / ComponentHost: per-host deployments with HA role,
    health, advertised version, and upgrade state

Plan output:
  - HostsType: resolved host set with master/secondary designations
  - Task / TaskKind: one unit of work (stop, start, restart, manual, ...)
  - TaskWrapper: tasks bound to a service/component/host set
  - StageWrapper: one ordered step of the plan

Configuration:
  - ConfigGroup: one configuration type with its live properties
  - ConfigRevision: a recorded configuration set for a service on a stack

# UpgradeContext

UpgradeContext carries the immutable inputs of one planning run plus two
explicit accumulators: unhealthy hosts discovered while resolving
components, and display names resolved from the stack catalog. The
context is owned by the caller, borrowed by the planner for the duration
of one CreateSequence call, and never shared between concurrent runs.

# Design Patterns

All enums use typed string constants:

	type Direction string
	const (
	    DirectionUpgrade   Direction = "upgrade"
	    DirectionDowngrade Direction = "downgrade"
	)

All types are JSON-serializable; the storage layer persists them as JSON
in BoltDB buckets, and upgrade packs declare Task values through YAML
tags on the same structs.
*/
package types
