/*
Package storage provides BoltDB-backed state persistence for Sherpa's
cluster and configuration data.

The storage package implements the Store interface using BoltDB as the
underlying database, providing ACID transactions for cluster topology,
per-stack default properties, live service configuration, and recorded
configuration revisions. All data is serialized as JSON and stored in
separate buckets.

# Bucket Structure

	clusters          cluster name          → types.Cluster
	stack_defaults    STACK-VER/service     → map[type]map[key]value
	live_configs      cluster/service       → []types.ConfigGroup
	config_revisions  zero-padded sequence  → types.ConfigRevision

Revisions are appended with a monotonic bucket sequence so that "the
latest revision for a service on a stack" is simply the last match in a
forward scan. Creating a revision also replaces the service's live
configuration in the same transaction; ApplyLatestConfigurations does the
reverse, restoring the newest recorded revision for a target stack (the
downgrade path of the merge engine).

The ConfigStore subset of the interface is what the merge engine and the
placeholder resolver consume; the rest exists for seeding and operating
on cluster state from the CLI and tests.
*/
package storage
