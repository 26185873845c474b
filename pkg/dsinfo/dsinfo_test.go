package dsinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordLoadThenGet(t *testing.T) {
	s := newTestStore(t)

	err := s.RecordLoad("metro", DatasetInfo{
		District:      "metro",
		EdgeCount:     1000,
		ShortcutCount: 4000,
		PartitionRes:  7,
		HybridRes:     10,
	})
	require.NoError(t, err)

	info, err := s.Get("metro")
	require.NoError(t, err)
	assert.Equal(t, "metro", info.Name)
	assert.Equal(t, "loaded", info.Status)
	assert.Equal(t, 1000, info.EdgeCount)
	assert.Nil(t, info.UnloadedAt)
}

func TestRecordLoadUpsertsExistingRow(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.RecordLoad("metro", DatasetInfo{EdgeCount: 1000}))
	require.NoError(t, s.RecordLoad("metro", DatasetInfo{EdgeCount: 2000}))

	all, err := s.List()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 2000, all[0].EdgeCount)
}

func TestRecordUnloadMarksStatus(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.RecordLoad("metro", DatasetInfo{EdgeCount: 1000}))

	require.NoError(t, s.RecordUnload("metro"))

	info, err := s.Get("metro")
	require.NoError(t, err)
	assert.Equal(t, "unloaded", info.Status)
	assert.NotNil(t, info.UnloadedAt)
}

func TestRecordUnloadUnknownDatasetFails(t *testing.T) {
	s := newTestStore(t)
	err := s.RecordUnload("nope")
	assert.Error(t, err)
}

func TestGetUnknownDatasetFails(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get("nope")
	assert.Error(t, err)
}

func TestListOrdersByLoadedAtDescending(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.RecordLoad("a", DatasetInfo{}))
	require.NoError(t, s.RecordLoad("b", DatasetInfo{}))

	all, err := s.List()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "b", all[0].Name)
	assert.Equal(t, "a", all[1].Name)
}
