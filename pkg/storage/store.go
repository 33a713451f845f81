package storage

import (
	"github.com/alpinehq/sherpa/pkg/types"
)

// ConfigStore is the configuration collaborator consumed by the merge
// engine and the placeholder resolver.
type ConfigStore interface {
	// DefaultProperties returns the default configuration shipped with a
	// stack for one service, keyed by configuration type then property.
	DefaultProperties(stack types.StackID, service string) (map[string]map[string]string, error)

	// LiveConfig returns the current configuration of a service.
	LiveConfig(cluster, service string) ([]types.ConfigGroup, error)

	// ApplyLatestConfigurations restores the most recent configuration
	// revision recorded for the service on the given stack.
	ApplyLatestConfigurations(cluster string, stack types.StackID, service string) error

	// CreateConfigRevision records a new configuration revision for the
	// service on the given stack and makes it the live configuration.
	CreateConfigRevision(cluster string, stack types.StackID, service string, configs map[string]map[string]string, actor, note string) error

	// PlaceholderValue resolves an open-ended {{type/property}} token
	// against the cluster's live configuration. The second return value
	// is false when the token does not resolve.
	PlaceholderValue(cluster, token string) (string, bool, error)
}

// Store defines the interface for cluster and configuration state storage
type Store interface {
	ConfigStore

	// Clusters
	CreateCluster(cluster *types.Cluster) error
	GetCluster(name string) (*types.Cluster, error)
	ListClusters() ([]*types.Cluster, error)
	UpdateCluster(cluster *types.Cluster) error
	DeleteCluster(name string) error

	// Configuration seeding and inspection
	SetDefaultProperties(stack types.StackID, service string, configs map[string]map[string]string) error
	SetLiveConfig(cluster, service string, groups []types.ConfigGroup) error
	ListConfigRevisions(cluster string) ([]*types.ConfigRevision, error)

	// Utility
	Close() error
}
