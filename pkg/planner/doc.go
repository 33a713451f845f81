/*
Package planner turns an upgrade pack and a run context into an ordered,
host-resolved task plan.

CreateSequence walks the pack's groups in declared order, applies scope
and condition filters, resolves hosts for every service/component through
the hosts.Resolver, derives or synthesizes each component's task list,
and drives the group's StageWrapperBuilder to materialize ordered stages.
A group whose builder yields no stages is dropped from the plan.

# Ordering Rules

	┌─────────────────────────────────────────────────────────┐
	│  Upgrade pack                                           │
	│    groups (declared order, per direction)               │
	│      services (declared order;                          │
	│                reversed for rolling downgrades)         │
	│        components (declared order)                      │
	│          → builder.Add(hosts, tasks)                    │
	│    builder.Build → ordered stages                       │
	└─────────────────────────────────────────────────────────┘

No other reordering occurs; given identical pack, context, and resolver
responses the planner is deterministic. Every group of a downgrade run is
forced skippable regardless of its declaration.

# NameNode Special Case

HDFS/NAMENODE receives dedicated handling. Rolling runs reorder the host
set so the standby NameNode is upgraded before the active one; if the
active/standby designations cannot be resolved the component is skipped
with a warning. Non-rolling runs against an HA pair submit two
single-host groups tagged with a desired_namenode_role parameter of
"active" and "standby" so each NameNode knows which role to take after
the bulk restart.

# Skips

Planning is deliberately tolerant: unresolvable hosts, underivable task
lists, and missing catalog metadata skip the affected component (logged,
counted in metrics) while the rest of the plan proceeds. Only a missing
or ambiguous upgrade pack aborts planning, and that is decided before
CreateSequence runs (see pack.Suggest).

# Post-Processing

After a group's stages are built, every title, stage text, task summary,
and manual-task message is run through {{...}} placeholder substitution:
fixed tokens for hosts, target version, and eight grammatical forms of
the run direction, with unknown tokens delegated to the config store's
desired-configuration lookup. Tokens that resolve to nothing are left
byte-for-byte intact.

The package also provides the execution preamble: MarkInProgress
transitions all participating component hosts into their in-progress
upgrade state in one batched store write, and
UpdateDesiredRepositoriesAndConfigs combines that with the configuration
merge performed by package configmerge.
*/
package planner
