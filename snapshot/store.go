// Package snapshot persists collection results as named, timestamped
// snapshot directories with a bbolt-backed catalog.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ainglese-dev/aci-maintenance-core/types"
)

const (
	dataSuffix    = "_data.json"
	summarySuffix = "_summary.txt"
	catalogFile   = "catalog.db"
	overallFile   = "snapshot_summary.txt"
)

// Store manages the snapshot directory tree. One directory per snapshot;
// within it one data file and one text summary per collection key, plus
// the overall rollup. Snapshots are never rewritten once finalized.
type Store struct {
	dir     string
	catalog *Catalog
	logger  zerolog.Logger
}

// Snapshot is the handle for one in-progress or stored snapshot.
type Snapshot struct {
	Name      string
	Path      string
	CreatedAt time.Time
}

// NewStore opens a snapshot store rooted at dir.
func NewStore(dir string, logger zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create snapshots directory: %w", err)
	}

	catalog, err := OpenCatalog(filepath.Join(dir, catalogFile))
	if err != nil {
		return nil, err
	}

	return &Store{dir: dir, catalog: catalog, logger: logger}, nil
}

// Close releases the catalog database.
func (s *Store) Close() error {
	return s.catalog.Close()
}

// Create allocates a new, empty, uniquely named snapshot directory. An
// empty name defaults to a timestamped one. Reusing an existing name is
// an error; stored snapshots are immutable.
func (s *Store) Create(name string) (*Snapshot, error) {
	now := time.Now()
	if name == "" {
		name = "snapshot_" + now.Format("20060102_150405")
	}

	path := filepath.Join(s.dir, name)
	if err := os.Mkdir(path, 0750); err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("snapshot %s already exists", name)
		}
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	s.logger.Info().Str("snapshot", name).Msg("created snapshot directory")
	return &Snapshot{Name: name, Path: path, CreatedAt: now}, nil
}

// Save writes one collection's structured payload and its text summary
// into the snapshot.
func (s *Store) Save(snap *Snapshot, key string, result types.CollectionResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s collection: %w", key, err)
	}

	dataPath := filepath.Join(snap.Path, key+dataSuffix)
	if err := os.WriteFile(dataPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s data: %w", key, err)
	}

	summaryPath := filepath.Join(snap.Path, key+summarySuffix)
	if err := os.WriteFile(summaryPath, []byte(collectionSummary(key, result)), 0600); err != nil {
		return fmt.Errorf("failed to write %s summary: %w", key, err)
	}

	s.logger.Info().
		Str("snapshot", snap.Name).
		Str("collection", key).
		Int("errors", result.ErrorCount()).
		Msg("saved collection")
	return nil
}

// Finalize computes the health rollup across all saved collections,
// writes the overall summary, and catalogs the snapshot.
func (s *Store) Finalize(snap *Snapshot, results map[string]types.CollectionResult, baseline bool) (types.SnapshotInfo, error) {
	totalErrors := 0
	for _, result := range results {
		totalErrors += result.ErrorCount()
	}
	health := types.HealthFor(totalErrors)

	summary := overallSummary(snap.Name, results, totalErrors, health)
	if err := os.WriteFile(filepath.Join(snap.Path, overallFile), []byte(summary), 0600); err != nil {
		return types.SnapshotInfo{}, fmt.Errorf("failed to write overall summary: %w", err)
	}

	info := types.SnapshotInfo{
		Name:        snap.Name,
		Path:        snap.Path,
		CreatedAt:   snap.CreatedAt,
		Collections: len(results),
		TotalErrors: totalErrors,
		Health:      health,
		Baseline:    baseline,
	}
	if err := s.catalog.Put(info); err != nil {
		return types.SnapshotInfo{}, err
	}

	s.logger.Info().
		Str("snapshot", snap.Name).
		Int("total_errors", totalErrors).
		Str("health", string(health)).
		Msg("finalized snapshot")
	return info, nil
}

// List enumerates stored snapshots, newest first. The directory tree is
// the source of truth; catalog metadata enriches entries that have it,
// and catalog entries whose directory was removed externally are pruned.
func (s *Store) List() ([]types.SnapshotInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshots directory: %w", err)
	}

	present := make(map[string]bool)
	var infos []types.SnapshotInfo

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		present[name] = true

		if info, ok := s.catalog.Get(name); ok {
			infos = append(infos, info)
			continue
		}

		// Uncataloged directory, e.g. an interrupted run.
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		infos = append(infos, types.SnapshotInfo{
			Name:        name,
			Path:        filepath.Join(s.dir, name),
			CreatedAt:   fi.ModTime(),
			Collections: s.countDataFiles(name),
		})
	}

	for _, stale := range s.catalog.List() {
		if !present[stale.Name] {
			if err := s.catalog.Delete(stale.Name); err != nil {
				s.logger.Warn().Err(err).Str("snapshot", stale.Name).Msg("failed to prune catalog entry")
			}
		}
	}

	sort.Slice(infos, func(i, j int) bool {
		return newestFirst(infos[i], infos[j])
	})
	return infos, nil
}

// MostRecent returns the newest snapshot, or nil when none exist.
func (s *Store) MostRecent() (*types.SnapshotInfo, error) {
	infos, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return nil, nil
	}
	return &infos[0], nil
}

// Load reconstructs all collections of a snapshot. Unreadable or corrupt
// files are reported per key and do not fail the load.
func (s *Store) Load(name string) (map[string]types.CollectionResult, map[string]error, error) {
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err != nil {
		return nil, nil, fmt.Errorf("snapshot %s not found: %w", name, err)
	}

	matches, err := filepath.Glob(filepath.Join(path, "*"+dataSuffix))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan snapshot %s: %w", name, err)
	}

	results := make(map[string]types.CollectionResult)
	failures := make(map[string]error)

	for _, dataPath := range matches {
		key := strings.TrimSuffix(filepath.Base(dataPath), dataSuffix)

		data, err := os.ReadFile(dataPath) // #nosec G304 -- paths come from the snapshot dir
		if err != nil {
			failures[key] = fmt.Errorf("failed to read %s: %w", key, err)
			continue
		}

		var result types.CollectionResult
		if err := json.Unmarshal(data, &result); err != nil {
			failures[key] = fmt.Errorf("corrupt data for %s: %w", key, err)
			continue
		}
		results[key] = result
	}

	for key, err := range failures {
		s.logger.Warn().Err(err).Str("snapshot", name).Str("collection", key).Msg("collection load failed")
	}
	return results, failures, nil
}

func (s *Store) countDataFiles(name string) int {
	matches, err := filepath.Glob(filepath.Join(s.dir, name, "*"+dataSuffix))
	if err != nil {
		return 0
	}
	return len(matches)
}
