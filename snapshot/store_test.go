package snapshot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ainglese-dev/aci-maintenance-core/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleResult(collector string, errors []string) types.CollectionResult {
	start := time.Now().Add(-2 * time.Second)
	end := time.Now()
	return types.CollectionResult{
		Collector:       collector,
		StartTime:       start,
		EndTime:         end,
		DurationSeconds: end.Sub(start).Seconds(),
		Errors:          errors,
		Metrics: map[string]types.MetricResult{
			"topology": {
				Source:      "/api/class/fabricNode.json",
				Description: "Fabric nodes",
				Count:       12,
				Processed:   map[string]any{"total_interfaces": 48, "up_interfaces": 44},
			},
		},
	}
}

func TestCreateDefaultName(t *testing.T) {
	store := newTestStore(t)

	snap, err := store.Create("")
	require.NoError(t, err)

	assert.Contains(t, snap.Name, "snapshot_")
	assert.DirExists(t, snap.Path)
}

func TestCreateRejectsDuplicate(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Create("pre-maint")
	require.NoError(t, err)

	_, err = store.Create("pre-maint")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)

	snap, err := store.Create("s1")
	require.NoError(t, err)

	result := sampleResult("FabricCollector", []string{"Warning: something"})
	require.NoError(t, store.Save(snap, "fabric", result))

	// Both artifacts exist per key.
	assert.FileExists(t, filepath.Join(snap.Path, "fabric_data.json"))
	assert.FileExists(t, filepath.Join(snap.Path, "fabric_summary.txt"))

	loaded, failures, err := store.Load("s1")
	require.NoError(t, err)
	assert.Empty(t, failures)
	require.Contains(t, loaded, "fabric")

	got := loaded["fabric"]
	assert.Equal(t, "FabricCollector", got.Collector)
	assert.Equal(t, []string{"Warning: something"}, got.Errors)
	assert.Equal(t, 12, got.Metrics["topology"].Count)
}

func TestLoadCorruptCollectionNotFatal(t *testing.T) {
	store := newTestStore(t)

	snap, err := store.Create("s1")
	require.NoError(t, err)
	require.NoError(t, store.Save(snap, "fabric", sampleResult("FabricCollector", nil)))

	// A second collection with a corrupt data file.
	corrupt := filepath.Join(snap.Path, "leaf_leaf1_data.json")
	require.NoError(t, os.WriteFile(corrupt, []byte("{not json"), 0600))

	loaded, failures, err := store.Load("s1")
	require.NoError(t, err)

	assert.Contains(t, loaded, "fabric")
	require.Contains(t, failures, "leaf_leaf1")
	assert.NotContains(t, loaded, "leaf_leaf1")
}

func TestLoadMissingSnapshot(t *testing.T) {
	store := newTestStore(t)
	_, _, err := store.Load("nope")
	assert.Error(t, err)
}

func TestFinalizeHealthTiers(t *testing.T) {
	tests := []struct {
		name       string
		errorSets  [][]string
		wantHealth types.Health
		wantErrors int
	}{
		{"healthy", [][]string{{}, {}}, types.HealthHealthy, 0},
		{"warning at three", [][]string{{"a", "b"}, {"c"}}, types.HealthWarning, 3},
		{"critical at four", [][]string{{"a", "b"}, {"c", "d"}}, types.HealthCritical, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			snap, err := store.Create("snap-" + tt.name)
			require.NoError(t, err)

			results := make(map[string]types.CollectionResult)
			for i, errs := range tt.errorSets {
				key := []string{"fabric", "controller"}[i]
				result := sampleResult("C", errs)
				require.NoError(t, store.Save(snap, key, result))
				results[key] = result
			}

			info, err := store.Finalize(snap, results, false)
			require.NoError(t, err)

			assert.Equal(t, tt.wantHealth, info.Health)
			assert.Equal(t, tt.wantErrors, info.TotalErrors)
			assert.FileExists(t, filepath.Join(snap.Path, "snapshot_summary.txt"))
		})
	}
}

func TestListNewestFirst(t *testing.T) {
	store := newTestStore(t)

	s1, err := store.Create("s1")
	require.NoError(t, err)
	_, err = store.Finalize(s1, nil, false)
	require.NoError(t, err)

	// Finalized later, so it must sort first.
	s2 := &Snapshot{Name: "s2", Path: filepath.Join(filepath.Dir(s1.Path), "s2"), CreatedAt: s1.CreatedAt.Add(time.Second)}
	require.NoError(t, os.Mkdir(s2.Path, 0750))
	_, err = store.Finalize(s2, nil, true)
	require.NoError(t, err)

	infos, err := store.List()
	require.NoError(t, err)
	require.Len(t, infos, 2)

	assert.Equal(t, "s2", infos[0].Name)
	assert.Equal(t, "s1", infos[1].Name)
	assert.True(t, infos[0].Baseline)
}

func TestListPrunesDeletedSnapshots(t *testing.T) {
	store := newTestStore(t)

	snap, err := store.Create("gone")
	require.NoError(t, err)
	_, err = store.Finalize(snap, nil, false)
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(snap.Path))

	infos, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, infos)

	// Catalog pruned too.
	_, ok := store.catalog.Get("gone")
	assert.False(t, ok)
}

func TestMostRecent(t *testing.T) {
	store := newTestStore(t)

	recent, err := store.MostRecent()
	require.NoError(t, err)
	assert.Nil(t, recent, "empty store has no baseline")

	snap, err := store.Create("only")
	require.NoError(t, err)
	_, err = store.Finalize(snap, nil, false)
	require.NoError(t, err)

	recent, err = store.MostRecent()
	require.NoError(t, err)
	require.NotNil(t, recent)
	assert.Equal(t, "only", recent.Name)
}

func TestCatalogSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir, zerolog.Nop())
	require.NoError(t, err)

	snap, err := store.Create("persist")
	require.NoError(t, err)
	_, err = store.Finalize(snap, map[string]types.CollectionResult{
		"fabric": sampleResult("FabricCollector", []string{"e1"}),
	}, true)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir, zerolog.Nop())
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	info, ok := reopened.catalog.Get("persist")
	require.True(t, ok)
	assert.Equal(t, 1, info.TotalErrors)
	assert.Equal(t, types.HealthWarning, info.Health)
	assert.True(t, info.Baseline)
}
