package hosts

import (
	"testing"

	"github.com/alpinehq/sherpa/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func haCluster() *types.Cluster {
	return &types.Cluster{
		Name: "c1",
		Services: []*types.Service{
			{
				Name: "HDFS",
				Components: []*types.Component{
					{
						Name: "NAMENODE",
						Hosts: []*types.ComponentHost{
							{Host: "nn1.example.com", Role: types.HostRoleActive, Healthy: true},
							{Host: "nn2.example.com", Role: types.HostRoleStandby, Healthy: true},
						},
					},
					{
						Name: "DATANODE",
						Hosts: []*types.ComponentHost{
							{Host: "dn1.example.com", Healthy: true},
							{Host: "dn2.example.com", Healthy: false},
							{Host: "dn3.example.com", Healthy: true},
						},
					},
				},
			},
		},
	}
}

func TestMasterAndHosts(t *testing.T) {
	r := NewClusterResolver(haCluster())

	ht, err := r.MasterAndHosts("HDFS", "NAMENODE")
	require.NoError(t, err)
	require.NotNil(t, ht)
	assert.Equal(t, []string{"nn1.example.com", "nn2.example.com"}, ht.Hosts)
	assert.Equal(t, "nn1.example.com", ht.Master)
	assert.Equal(t, "nn2.example.com", ht.Secondary)
	assert.Empty(t, ht.Unhealthy)
}

func TestMasterAndHostsCollectsUnhealthy(t *testing.T) {
	r := NewClusterResolver(haCluster())

	ht, err := r.MasterAndHosts("HDFS", "DATANODE")
	require.NoError(t, err)
	require.NotNil(t, ht)
	assert.Len(t, ht.Hosts, 3)
	assert.Empty(t, ht.Master)
	assert.Equal(t, []string{"dn2.example.com"}, ht.Unhealthy)
}

func TestMasterAndHostsCaseInsensitive(t *testing.T) {
	r := NewClusterResolver(haCluster())

	ht, err := r.MasterAndHosts("hdfs", "namenode")
	require.NoError(t, err)
	require.NotNil(t, ht)
	assert.Equal(t, "nn1.example.com", ht.Master)
}

func TestMasterAndHostsUnresolved(t *testing.T) {
	r := NewClusterResolver(haCluster())

	ht, err := r.MasterAndHosts("YARN", "RESOURCEMANAGER")
	require.NoError(t, err)
	assert.Nil(t, ht)

	ht, err = r.MasterAndHosts("HDFS", "JOURNALNODE")
	require.NoError(t, err)
	assert.Nil(t, ht)
}

func TestIsNameNodeHA(t *testing.T) {
	r := NewClusterResolver(haCluster())
	ha, err := r.IsNameNodeHA()
	require.NoError(t, err)
	assert.True(t, ha)

	single := haCluster()
	single.Service("HDFS").Component("NAMENODE").Hosts = single.Service("HDFS").Component("NAMENODE").Hosts[:1]
	ha, err = NewClusterResolver(single).IsNameNodeHA()
	require.NoError(t, err)
	assert.False(t, ha)

	ha, err = NewClusterResolver(&types.Cluster{Name: "empty"}).IsNameNodeHA()
	require.NoError(t, err)
	assert.False(t, ha)
}
