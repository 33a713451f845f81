package hosts

import (
	"github.com/alpinehq/sherpa/pkg/types"
)

// Resolver resolves the target hosts for a service/component and detects
// NameNode high availability. A nil HostsType with a nil error means the
// component could not be resolved; planners treat that as a skip, not a
// failure.
type Resolver interface {
	MasterAndHosts(service, component string) (*types.HostsType, error)
	IsNameNodeHA() (bool, error)
}

// ClusterResolver resolves hosts from a cluster topology snapshot.
type ClusterResolver struct {
	cluster *types.Cluster
}

// NewClusterResolver creates a resolver over the given cluster.
func NewClusterResolver(cluster *types.Cluster) *ClusterResolver {
	return &ClusterResolver{cluster: cluster}
}

// MasterAndHosts returns the hosts a component is deployed on, in the
// order they appear in the topology, with master/secondary taken from the
// recorded HA roles and unhealthy hosts collected from host health.
func (r *ClusterResolver) MasterAndHosts(service, component string) (*types.HostsType, error) {
	svc := r.cluster.Service(service)
	if svc == nil {
		return nil, nil
	}
	comp := svc.Component(component)
	if comp == nil || len(comp.Hosts) == 0 {
		return nil, nil
	}

	ht := &types.HostsType{}
	for _, ch := range comp.Hosts {
		ht.Hosts = append(ht.Hosts, ch.Host)
		switch ch.Role {
		case types.HostRoleActive:
			ht.Master = ch.Host
		case types.HostRoleStandby:
			ht.Secondary = ch.Host
		}
		if !ch.Healthy {
			ht.Unhealthy = append(ht.Unhealthy, ch.Host)
		}
	}
	return ht, nil
}

// IsNameNodeHA reports whether the cluster runs more than one NameNode.
func (r *ClusterResolver) IsNameNodeHA() (bool, error) {
	svc := r.cluster.Service("HDFS")
	if svc == nil {
		return false, nil
	}
	comp := svc.Component("NAMENODE")
	if comp == nil {
		return false, nil
	}
	return len(comp.Hosts) > 1, nil
}
