package journal

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndReplay(t *testing.T) {
	dir := t.TempDir()

	j, err := Open(dir)
	require.NoError(t, err)

	require.NoError(t, j.Append(EntryRunStarted, "s1", "", map[string]int{"devices": 4}))
	require.NoError(t, j.Append(EntryCollectionSaved, "s1", "fabric", nil))
	require.NoError(t, j.AppendError(EntryCollectionFail, "s1", "leaf_leaf1", nil, fmt.Errorf("ssh refused")))
	require.NoError(t, j.Append(EntryRunFinalized, "s1", "", nil))
	require.NoError(t, j.Close())

	var entries []*Entry
	err = Replay(dir, time.Time{}, func(e *Entry) error {
		entries = append(entries, e)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, entries, 4)

	assert.Equal(t, EntryRunStarted, entries[0].Type)
	assert.Equal(t, int64(1), entries[0].Sequence)
	assert.Equal(t, "s1", entries[0].Snapshot)

	assert.Equal(t, "fabric", entries[1].Key)
	assert.Equal(t, "ssh refused", entries[2].Error)
	assert.Equal(t, int64(4), entries[3].Sequence)
}

func TestReplaySince(t *testing.T) {
	dir := t.TempDir()

	j, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, j.Append(EntryRunStarted, "s1", "", nil))
	require.NoError(t, j.Close())

	count := 0
	err = Replay(dir, time.Now().Add(time.Hour), func(e *Entry) error {
		count++
		return nil
	})
	require.NoError(t, err)
	assert.Zero(t, count, "entries before the cutoff are skipped")
}

func TestReplayEmptyDir(t *testing.T) {
	err := Replay(t.TempDir(), time.Time{}, func(e *Entry) error {
		t.Fatal("no entries expected")
		return nil
	})
	assert.NoError(t, err)
}
