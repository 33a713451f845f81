/*
Package pack defines the upgrade pack model: the static, declarative
description of how one stack transition is orchestrated.

An upgrade pack is an ordered list of groupings (phases), each naming the
services and components it covers in order, plus an optional processing
map of explicit per-component task lists. Packs are loaded from YAML
documents, validated once, and treated as read-only by the planner.

# Grouping Kinds

Each grouping selects a stage-building strategy through its kind:

  - standard: components carry the explicit tasks the processing map
    declares for them; service checks can follow the stages
  - function: the group implies one uniform stop, start, or restart
    action and the planner synthesizes tasks on the fly
  - service-check: one check stage per distinct service listed

The strategy is exposed as a StageWrapperBuilder, created fresh per
planning run via Grouping.Builder. The planner submits every resolved
component with Add and materializes the ordered stages with Build; stage
granularity inside a group belongs entirely to the builder.

# Pack Selection

Suggest picks the one pack whose target stack and kind match the
requested run. Zero matches yield ErrPackNotFound, several yield
ErrPackAmbiguous; both abort planning before any plan is produced.

# File Format

	name: hdp-2.3-rolling
	kind: rolling
	source_stack: HDP-2.2
	target_stack: HDP-2.3
	groups:
	  - name: core-masters
	    title: Core Masters
	    services:
	      - name: HDFS
	        components: [NAMENODE, JOURNALNODE]
	processing:
	  HDFS:
	    NAMENODE:
	      - kind: restart
	        summary: Restarting NameNode on {{hosts.master}}

allow_retry, auto_skip, and service_check default to true when omitted;
skippable defaults to false. A group with a function field is a function
group regardless of its declared kind.
*/
package pack
