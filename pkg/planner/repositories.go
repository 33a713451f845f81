package planner

import (
	"fmt"

	"github.com/alpinehq/sherpa/pkg/configmerge"
	"github.com/alpinehq/sherpa/pkg/storage"
	"github.com/alpinehq/sherpa/pkg/types"
)

// ClusterWriter persists an updated cluster topology.
type ClusterWriter interface {
	UpdateCluster(cluster *types.Cluster) error
}

// MarkInProgress transitions every participating component host into an
// in-progress upgrade state. Components that do not advertise their own
// version are set to state none and their recorded version cleared, since
// no restart will ever report a new one. The whole topology is written
// back in a single store update rather than one write per host.
func (p *Planner) MarkInProgress(ctx *types.UpgradeContext, clusters ClusterWriter) error {
	cluster := ctx.Topology

	for _, serviceName := range ctx.Supported {
		svc := cluster.Service(serviceName)
		if svc == nil {
			continue
		}

		target, ok := ctx.TargetRepository(serviceName)
		if !ok {
			return fmt.Errorf("no target repository version for service %s", serviceName)
		}

		for _, component := range svc.Components {
			advertised, err := p.catalog.IsVersionAdvertised(target.Stack, svc.Name, component.Name)
			if err != nil {
				p.logger.Warn().Err(err).
					Str("service", svc.Name).
					Str("cmp", component.Name).
					Str("stack", target.Stack.String()).
					Msg("component not found for stack, recording unknown version")
				advertised = false
			}

			state := types.UpgradeStateInProgress
			if !advertised {
				state = types.UpgradeStateNone
			}

			for _, host := range component.Hosts {
				if host.UpgradeState != state {
					host.UpgradeState = state
				}
				if !advertised && host.Version != types.VersionUnknown {
					host.Version = types.VersionUnknown
				}
			}
		}
	}

	return clusters.UpdateCluster(cluster)
}

// UpdateDesiredRepositoriesAndConfigs prepares a cluster for execution of
// a planned run: components are transitioned to their in-progress state
// and service configurations are merged (upgrade) or reverted (downgrade)
// where the run crosses a stack boundary.
func (p *Planner) UpdateDesiredRepositoriesAndConfigs(ctx *types.UpgradeContext, store storage.Store, actor string) error {
	if err := p.MarkInProgress(ctx, store); err != nil {
		return fmt.Errorf("failed to mark components in progress: %w", err)
	}
	return configmerge.New(store).Reconcile(ctx, actor)
}
