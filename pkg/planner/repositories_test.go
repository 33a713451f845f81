package planner

import (
	"fmt"
	"testing"

	"github.com/alpinehq/sherpa/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCatalog answers version-advertisement queries from a fixed table
// keyed SERVICE/COMPONENT; anything absent is an error.
type fakeCatalog struct {
	advertised map[string]bool
}

func (f *fakeCatalog) ServiceDisplayName(stack types.StackID, service string) (string, error) {
	return service, nil
}

func (f *fakeCatalog) ComponentDisplayName(stack types.StackID, service, component string) (string, error) {
	return component, nil
}

func (f *fakeCatalog) IsVersionAdvertised(stack types.StackID, service, component string) (bool, error) {
	v, ok := f.advertised[service+"/"+component]
	if !ok {
		return false, fmt.Errorf("component %s/%s not found in stack %s", service, component, stack)
	}
	return v, nil
}

type fakeClusterWriter struct {
	updates int
	last    *types.Cluster
}

func (f *fakeClusterWriter) UpdateCluster(cluster *types.Cluster) error {
	f.updates++
	f.last = cluster
	return nil
}

func TestMarkInProgress(t *testing.T) {
	ctx := testContext(types.DirectionUpgrade, types.UpgradeKindRolling, "HDFS", "ZOOKEEPER")
	ctx.Topology.Services = []*types.Service{
		{
			Name: "HDFS",
			Components: []*types.Component{
				{
					Name: "NAMENODE",
					Hosts: []*types.ComponentHost{
						{Host: "nn1.example.com", Healthy: true, Version: "2.2.0.0-1000"},
					},
				},
				{
					Name: "HDFS_CLIENT",
					Hosts: []*types.ComponentHost{
						{Host: "edge1.example.com", Healthy: true, Version: "2.2.0.0-1000"},
					},
				},
			},
		},
		{
			Name: "ZOOKEEPER",
			Components: []*types.Component{
				{
					Name: "ZOOKEEPER_SERVER",
					Hosts: []*types.ComponentHost{
						{Host: "zk1.example.com", Healthy: true, Version: "2.2.0.0-1000"},
					},
				},
			},
		},
	}

	cat := &fakeCatalog{advertised: map[string]bool{
		"HDFS/NAMENODE":              true,
		"HDFS/HDFS_CLIENT":           false,
		"ZOOKEEPER/ZOOKEEPER_SERVER": true,
	}}
	p := New(&fakeResolver{}, &fakeConfigStore{}, cat)
	writer := &fakeClusterWriter{}

	require.NoError(t, p.MarkInProgress(ctx, writer))

	// The whole topology is written back once
	assert.Equal(t, 1, writer.updates)

	nn := ctx.Topology.Service("HDFS").Component("NAMENODE").Hosts[0]
	assert.Equal(t, types.UpgradeStateInProgress, nn.UpgradeState)
	assert.Equal(t, "2.2.0.0-1000", nn.Version)

	// A component that never reports its version is parked at state none
	// with its recorded version cleared
	client := ctx.Topology.Service("HDFS").Component("HDFS_CLIENT").Hosts[0]
	assert.Equal(t, types.UpgradeStateNone, client.UpgradeState)
	assert.Equal(t, types.VersionUnknown, client.Version)

	zk := ctx.Topology.Service("ZOOKEEPER").Component("ZOOKEEPER_SERVER").Hosts[0]
	assert.Equal(t, types.UpgradeStateInProgress, zk.UpgradeState)
}

func TestMarkInProgressUnknownComponentTreatedAsUnadvertised(t *testing.T) {
	ctx := testContext(types.DirectionUpgrade, types.UpgradeKindRolling, "HDFS")
	ctx.Topology.Services = []*types.Service{
		{
			Name: "HDFS",
			Components: []*types.Component{
				{
					Name: "JOURNALNODE",
					Hosts: []*types.ComponentHost{
						{Host: "jn1.example.com", Healthy: true, Version: "2.2.0.0-1000"},
					},
				},
			},
		},
	}

	p := New(&fakeResolver{}, &fakeConfigStore{}, &fakeCatalog{advertised: map[string]bool{}})
	writer := &fakeClusterWriter{}

	require.NoError(t, p.MarkInProgress(ctx, writer))

	jn := ctx.Topology.Service("HDFS").Component("JOURNALNODE").Hosts[0]
	assert.Equal(t, types.UpgradeStateNone, jn.UpgradeState)
	assert.Equal(t, types.VersionUnknown, jn.Version)
}

func TestMarkInProgressMissingTargetRepository(t *testing.T) {
	ctx := testContext(types.DirectionUpgrade, types.UpgradeKindRolling, "HDFS")
	ctx.Topology.Services = []*types.Service{{Name: "HDFS"}}
	delete(ctx.Target, "HDFS")

	p := New(&fakeResolver{}, &fakeConfigStore{}, &fakeCatalog{})
	writer := &fakeClusterWriter{}

	err := p.MarkInProgress(ctx, writer)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no target repository version")
	assert.Zero(t, writer.updates)
}

func TestMarkInProgressSkipsAbsentServices(t *testing.T) {
	// A supported service missing from the topology is not an error
	ctx := testContext(types.DirectionUpgrade, types.UpgradeKindRolling, "HDFS", "YARN")
	ctx.Topology.Services = []*types.Service{{Name: "HDFS"}}

	p := New(&fakeResolver{}, &fakeConfigStore{}, &fakeCatalog{})
	writer := &fakeClusterWriter{}

	require.NoError(t, p.MarkInProgress(ctx, writer))
	assert.Equal(t, 1, writer.updates)
}
