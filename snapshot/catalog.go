package snapshot

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/btree"
	"go.etcd.io/bbolt"

	"github.com/ainglese-dev/aci-maintenance-core/types"
)

var bucketSnapshots = []byte("snapshots")

// Catalog keeps snapshot metadata in bbolt with an in-memory btree index
// ordered by creation time, newest first. The index is rebuilt from disk
// on open.
type Catalog struct {
	mu    sync.RWMutex
	db    *bbolt.DB
	index *btree.BTreeG[types.SnapshotInfo]
}

// newestFirst orders the index by creation time descending, name as
// tie-breaker.
func newestFirst(a, b types.SnapshotInfo) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.Name < b.Name
}

// OpenCatalog opens or creates the snapshot catalog database.
func OpenCatalog(path string) (*Catalog, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSnapshots)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to init catalog bucket: %w", err)
	}

	c := &Catalog{
		db:    db,
		index: btree.NewG[types.SnapshotInfo](32, newestFirst),
	}

	if err := c.rebuildIndex(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return c, nil
}

// Close closes the catalog database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Put records or updates one snapshot's metadata.
func (c *Catalog) Put(info types.SnapshotInfo) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	value, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot info: %w", err)
	}

	err = c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSnapshots).Put([]byte(info.Name), value)
	})
	if err != nil {
		return fmt.Errorf("failed to store snapshot info: %w", err)
	}

	// Replace any stale entry for the same name before re-inserting.
	c.deleteFromIndex(info.Name)
	c.index.ReplaceOrInsert(info)
	return nil
}

// Get returns one snapshot's metadata by name.
func (c *Catalog) Get(name string) (types.SnapshotInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var found types.SnapshotInfo
	ok := false
	c.index.Ascend(func(info types.SnapshotInfo) bool {
		if info.Name == name {
			found = info
			ok = true
			return false
		}
		return true
	})
	return found, ok
}

// List returns all cataloged snapshots, newest first.
func (c *Catalog) List() []types.SnapshotInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()

	infos := make([]types.SnapshotInfo, 0, c.index.Len())
	c.index.Ascend(func(info types.SnapshotInfo) bool {
		infos = append(infos, info)
		return true
	})
	return infos
}

// Delete removes a snapshot's metadata, e.g. when its directory has been
// removed externally.
func (c *Catalog) Delete(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSnapshots).Delete([]byte(name))
	})
	if err != nil {
		return fmt.Errorf("failed to delete snapshot info: %w", err)
	}

	c.deleteFromIndex(name)
	return nil
}

func (c *Catalog) deleteFromIndex(name string) {
	var stale *types.SnapshotInfo
	c.index.Ascend(func(info types.SnapshotInfo) bool {
		if info.Name == name {
			found := info
			stale = &found
			return false
		}
		return true
	})
	if stale != nil {
		c.index.Delete(*stale)
	}
}

// rebuildIndex loads all metadata from disk into the btree.
func (c *Catalog) rebuildIndex() error {
	return c.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSnapshots).ForEach(func(_, value []byte) error {
			var info types.SnapshotInfo
			if err := json.Unmarshal(value, &info); err != nil {
				return fmt.Errorf("corrupt catalog entry: %w", err)
			}
			c.index.ReplaceOrInsert(info)
			return nil
		})
	})
}
