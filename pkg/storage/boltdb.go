package storage

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/alpinehq/sherpa/pkg/types"
	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

var (
	// Bucket names
	bucketClusters  = []byte("clusters")
	bucketDefaults  = []byte("stack_defaults")
	bucketConfigs   = []byte("live_configs")
	bucketRevisions = []byte("config_revisions")
)

// BoltStore implements Store interface using BoltDB
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore creates a new BoltDB-backed store
func NewBoltStore(dataDir string) (*BoltStore, error) {
	dbPath := filepath.Join(dataDir, "sherpa.db")

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Create buckets
	err = db.Update(func(tx *bolt.Tx) error {
		buckets := [][]byte{
			bucketClusters,
			bucketDefaults,
			bucketConfigs,
			bucketRevisions,
		}

		for _, bucket := range buckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})

	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

// Close closes the database
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Cluster operations
func (s *BoltStore) CreateCluster(cluster *types.Cluster) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketClusters)
		data, err := json.Marshal(cluster)
		if err != nil {
			return err
		}
		return b.Put([]byte(cluster.Name), data)
	})
}

func (s *BoltStore) GetCluster(name string) (*types.Cluster, error) {
	var cluster types.Cluster
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketClusters)
		data := b.Get([]byte(name))
		if data == nil {
			return fmt.Errorf("cluster not found: %s", name)
		}
		return json.Unmarshal(data, &cluster)
	})
	if err != nil {
		return nil, err
	}
	return &cluster, nil
}

func (s *BoltStore) ListClusters() ([]*types.Cluster, error) {
	var clusters []*types.Cluster
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketClusters)
		return b.ForEach(func(k, v []byte) error {
			var cluster types.Cluster
			if err := json.Unmarshal(v, &cluster); err != nil {
				return err
			}
			clusters = append(clusters, &cluster)
			return nil
		})
	})
	return clusters, err
}

func (s *BoltStore) UpdateCluster(cluster *types.Cluster) error {
	return s.CreateCluster(cluster) // Same as create (upsert)
}

func (s *BoltStore) DeleteCluster(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketClusters)
		return b.Delete([]byte(name))
	})
}

// Stack default properties

func defaultsKey(stack types.StackID, service string) []byte {
	return []byte(stack.String() + "/" + service)
}

func (s *BoltStore) SetDefaultProperties(stack types.StackID, service string, configs map[string]map[string]string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDefaults)
		data, err := json.Marshal(configs)
		if err != nil {
			return err
		}
		return b.Put(defaultsKey(stack, service), data)
	})
}

func (s *BoltStore) DefaultProperties(stack types.StackID, service string) (map[string]map[string]string, error) {
	var configs map[string]map[string]string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDefaults)
		data := b.Get(defaultsKey(stack, service))
		if data == nil {
			return fmt.Errorf("no default properties for %s on stack %s", service, stack)
		}
		return json.Unmarshal(data, &configs)
	})
	if err != nil {
		return nil, err
	}
	return configs, nil
}

// Live configuration

func configKey(cluster, service string) []byte {
	return []byte(cluster + "/" + service)
}

func (s *BoltStore) SetLiveConfig(cluster, service string, groups []types.ConfigGroup) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketConfigs)
		data, err := json.Marshal(groups)
		if err != nil {
			return err
		}
		return b.Put(configKey(cluster, service), data)
	})
}

func (s *BoltStore) LiveConfig(cluster, service string) ([]types.ConfigGroup, error) {
	var groups []types.ConfigGroup
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketConfigs)
		data := b.Get(configKey(cluster, service))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &groups)
	})
	return groups, err
}

// Configuration revisions

func (s *BoltStore) CreateConfigRevision(cluster string, stack types.StackID, service string, configs map[string]map[string]string, actor, note string) error {
	rev := &types.ConfigRevision{
		ID:        uuid.New().String(),
		Cluster:   cluster,
		Stack:     stack,
		Service:   service,
		Configs:   configs,
		Actor:     actor,
		Note:      note,
		CreatedAt: time.Now(),
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRevisions)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		data, err := json.Marshal(rev)
		if err != nil {
			return err
		}
		if err := b.Put([]byte(fmt.Sprintf("%016d", seq)), data); err != nil {
			return err
		}

		// A new revision becomes the live configuration immediately.
		cb := tx.Bucket(bucketConfigs)
		groups := groupsFromConfigs(configs)
		cdata, err := json.Marshal(groups)
		if err != nil {
			return err
		}
		return cb.Put(configKey(cluster, service), cdata)
	})
}

func (s *BoltStore) ListConfigRevisions(cluster string) ([]*types.ConfigRevision, error) {
	var revisions []*types.ConfigRevision
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRevisions)
		return b.ForEach(func(k, v []byte) error {
			var rev types.ConfigRevision
			if err := json.Unmarshal(v, &rev); err != nil {
				return err
			}
			if rev.Cluster == cluster {
				revisions = append(revisions, &rev)
			}
			return nil
		})
	})
	return revisions, err
}

// ApplyLatestConfigurations restores the newest revision recorded for the
// service on the given stack as the live configuration. Bucket keys are
// zero-padded sequence numbers, so a forward cursor scan visits revisions
// oldest first and the last match wins.
func (s *BoltStore) ApplyLatestConfigurations(cluster string, stack types.StackID, service string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRevisions)

		var latest *types.ConfigRevision
		err := b.ForEach(func(k, v []byte) error {
			var rev types.ConfigRevision
			if err := json.Unmarshal(v, &rev); err != nil {
				return err
			}
			if rev.Cluster == cluster && rev.Service == service && rev.Stack.Equal(stack) {
				latest = &rev
			}
			return nil
		})
		if err != nil {
			return err
		}
		if latest == nil {
			return fmt.Errorf("no configuration revision for %s on stack %s in cluster %s", service, stack, cluster)
		}

		cb := tx.Bucket(bucketConfigs)
		data, err := json.Marshal(groupsFromConfigs(latest.Configs))
		if err != nil {
			return err
		}
		return cb.Put(configKey(cluster, service), data)
	})
}

// PlaceholderValue resolves a {{type/property}} token against the live
// configuration of every service in the cluster.
func (s *BoltStore) PlaceholderValue(cluster, token string) (string, bool, error) {
	inner := strings.TrimSuffix(strings.TrimPrefix(token, "{{"), "}}")
	configType, property, ok := strings.Cut(inner, "/")
	if !ok {
		return "", false, nil
	}

	var value string
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketConfigs)
		c := b.Cursor()
		prefix := []byte(cluster + "/")
		for k, v := c.Seek(prefix); k != nil && strings.HasPrefix(string(k), string(prefix)); k, v = c.Next() {
			var groups []types.ConfigGroup
			if err := json.Unmarshal(v, &groups); err != nil {
				return err
			}
			for _, g := range groups {
				if g.Type != configType {
					continue
				}
				if val, ok := g.Properties[property]; ok {
					value = val
					found = true
					return nil
				}
			}
		}
		return nil
	})
	return value, found, err
}

// groupsFromConfigs converts a type-keyed property map into the ordered
// ConfigGroup form used for live configuration.
func groupsFromConfigs(configs map[string]map[string]string) []types.ConfigGroup {
	groupTypes := make([]string, 0, len(configs))
	for t := range configs {
		groupTypes = append(groupTypes, t)
	}
	sort.Strings(groupTypes)

	groups := make([]types.ConfigGroup, 0, len(groupTypes))
	for _, t := range groupTypes {
		groups = append(groups, types.ConfigGroup{Type: t, Properties: configs[t]})
	}
	return groups
}
