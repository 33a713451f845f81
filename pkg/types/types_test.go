package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectionForms(t *testing.T) {
	tests := []struct {
		name      string
		direction Direction
		form      func(Direction, bool) string
		want      string
		wantUpper string
	}{
		{"upgrade text", DirectionUpgrade, Direction.Text, "upgrade", "Upgrade"},
		{"downgrade text", DirectionDowngrade, Direction.Text, "downgrade", "Downgrade"},
		{"upgrade past", DirectionUpgrade, Direction.Past, "upgraded", "Upgraded"},
		{"downgrade past", DirectionDowngrade, Direction.Past, "downgraded", "Downgraded"},
		{"upgrade plural", DirectionUpgrade, Direction.Plural, "upgrades", "Upgrades"},
		{"downgrade plural", DirectionDowngrade, Direction.Plural, "downgrades", "Downgrades"},
		{"upgrade verb", DirectionUpgrade, Direction.Verb, "upgrading", "Upgrading"},
		{"downgrade verb", DirectionDowngrade, Direction.Verb, "downgrading", "Downgrading"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.form(tt.direction, false))
			assert.Equal(t, tt.wantUpper, tt.form(tt.direction, true))
		})
	}
}

func TestDirectionPreposition(t *testing.T) {
	assert.Equal(t, "to", DirectionUpgrade.Preposition())
	assert.Equal(t, "back to", DirectionDowngrade.Preposition())
}

func TestStackID(t *testing.T) {
	s := StackID{Name: "HDP", Version: "2.3"}
	assert.Equal(t, "HDP-2.3", s.String())
	assert.True(t, s.Equal(StackID{Name: "HDP", Version: "2.3"}))
	assert.False(t, s.Equal(StackID{Name: "HDP", Version: "2.2"}))
	assert.False(t, s.Equal(StackID{Name: "BIGTOP", Version: "2.3"}))
}

func TestParseStackID(t *testing.T) {
	tests := []struct {
		in      string
		want    StackID
		wantErr bool
	}{
		{in: "HDP-2.3", want: StackID{Name: "HDP", Version: "2.3"}},
		// Stack names may themselves contain dashes
		{in: "HDP-GLUSTERFS-2.3", want: StackID{Name: "HDP-GLUSTERFS", Version: "2.3"}},
		{in: "HDP", wantErr: true},
		{in: "HDP-", wantErr: true},
		{in: "-2.3", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStackID(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClusterLookupsAreCaseInsensitive(t *testing.T) {
	cluster := &Cluster{
		Services: []*Service{
			{
				Name:       "HDFS",
				Components: []*Component{{Name: "NAMENODE"}},
			},
		},
	}

	require.NotNil(t, cluster.Service("hdfs"))
	require.NotNil(t, cluster.Service("HDFS").Component("NameNode"))
	assert.Nil(t, cluster.Service("yarn"))
	assert.Nil(t, cluster.Service("HDFS").Component("DATANODE"))
}

func TestContextScoping(t *testing.T) {
	ctx := &UpgradeContext{Scope: ScopeComplete}

	assert.True(t, ctx.IsScoped(ScopeAny))
	assert.True(t, ctx.IsScoped(""))
	assert.True(t, ctx.IsScoped(ScopeComplete))
	assert.False(t, ctx.IsScoped(ScopePartial))
}

func TestContextServiceSupport(t *testing.T) {
	ctx := &UpgradeContext{Supported: []string{"HDFS", "ZOOKEEPER"}}

	assert.True(t, ctx.IsServiceSupported("HDFS"))
	assert.True(t, ctx.IsServiceSupported("zookeeper"))
	assert.False(t, ctx.IsServiceSupported("YARN"))
}

func TestContextUnhealthyAccumulation(t *testing.T) {
	ctx := &UpgradeContext{}
	assert.Empty(t, ctx.UnhealthyHosts())

	ctx.AddUnhealthy([]string{"b.example.com", "a.example.com"})
	ctx.AddUnhealthy([]string{"b.example.com", "c.example.com"})

	assert.Equal(t, []string{"a.example.com", "b.example.com", "c.example.com"}, ctx.UnhealthyHosts())
}

func TestContextDisplayFallbacks(t *testing.T) {
	ctx := &UpgradeContext{}
	assert.Equal(t, "HDFS", ctx.ServiceDisplay("HDFS"))
	assert.Equal(t, "NAMENODE", ctx.ComponentDisplay("HDFS", "NAMENODE"))

	ctx.SetServiceDisplay("HDFS", "HDFS")
	ctx.SetComponentDisplay("HDFS", "NAMENODE", "NameNode")
	assert.Equal(t, "NameNode", ctx.ComponentDisplay("HDFS", "NAMENODE"))
}
