package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wWordDevw/terap-ia/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func run(id, group, week string, at time.Time) domain.RunRecord {
	return domain.RunRecord{
		RunID:       id,
		GroupID:     group,
		WeekID:      week,
		Source:      "http://localhost:3002",
		Strategy:    "structured",
		GeneratedAt: at,
		Summary:     domain.Summary{Verified: 3, Passed: 2, Failed: 1},
		Digest:      "sha256:" + id,
		Document:    []byte(`{"run":"` + id + `"}`),
	}
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")

	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, DatabaseName), store.Path())
	_, err = os.Stat(store.Path())
	assert.NoError(t, err)
}

func TestNewStore_ReopenKeepsRuns(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, run("r1", "g1", "w1", time.Now())))
	require.NoError(t, store.Close())

	store, err = NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	got, err := store.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "g1", got.GroupID)
}

func TestMigrate_RecordsVersions(t *testing.T) {
	store := newTestStore(t)

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)

	// A second pass applies nothing.
	fsys := fstest.MapFS{
		"001_history.up.sql": {Data: []byte("this is not sql")},
		"002_extra.up.sql":   {Data: []byte("CREATE TABLE extra (id INTEGER);")},
		"002_extra.down.sql": {Data: []byte("DROP TABLE extra;")},
		"README":             {Data: []byte("ignored")},
	}
	require.NoError(t, store.migrate(fsys))
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 2, version)
}

func TestMigrate_FailedScriptIsNotRecorded(t *testing.T) {
	store := newTestStore(t)

	err := store.migrate(fstest.MapFS{
		"005_broken.up.sql": {Data: []byte("CREATE TABLE")},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "005_broken.up.sql")

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)
}

func TestStore_SaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	at := time.Date(2025, time.October, 31, 12, 30, 15, 123456789, time.FixedZone("EST", -5*3600))

	require.NoError(t, store.Save(ctx, run("r1", "g1", "w1", at)))

	got, err := store.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "r1", got.RunID)
	assert.Equal(t, "w1", got.WeekID)
	assert.Equal(t, "http://localhost:3002", got.Source)
	assert.Equal(t, "structured", got.Strategy)
	assert.True(t, at.Equal(got.GeneratedAt), "got %s", got.GeneratedAt)
	assert.Equal(t, domain.Summary{Verified: 3, Passed: 2, Failed: 1}, got.Summary)
	assert.Equal(t, "sha256:r1", got.Digest)
	assert.Equal(t, `{"run":"r1"}`, string(got.Document))
	assert.False(t, got.Passed())
}

func TestStore_SaveReplaces(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	at := time.Now()

	require.NoError(t, store.Save(ctx, run("r1", "g1", "w1", at)))
	replacement := run("r1", "g1", "w1", at)
	replacement.Summary = domain.Summary{Verified: 3, Passed: 3}
	require.NoError(t, store.Save(ctx, replacement))

	runs, err := store.List(ctx, domain.HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.True(t, runs[0].Passed())
}

func TestStore_SaveRequiresRunID(t *testing.T) {
	store := newTestStore(t)

	err := store.Save(context.Background(), run("", "g1", "w1", time.Now()))

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStore_GetNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_List(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, time.October, 27, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, run("old", "g1", "w1", base)))
	require.NoError(t, store.Save(ctx, run("new", "g1", "w2", base.Add(time.Hour))))
	// Same instant in another zone still sorts by absolute time.
	require.NoError(t, store.Save(ctx, run("other", "g2", "w1", base.Add(30*time.Minute).In(time.FixedZone("X", 7*3600)))))
	require.NoError(t, store.Save(ctx, run("same-time", "g1", "w1", base)))

	tests := []struct {
		name   string
		filter domain.HistoryFilter
		want   []string
	}{
		{"all newest first", domain.HistoryFilter{}, []string{"new", "other", "same-time", "old"}},
		{"by group", domain.HistoryFilter{GroupID: "g1"}, []string{"new", "same-time", "old"}},
		{"by group and week", domain.HistoryFilter{GroupID: "g1", WeekID: "w1"}, []string{"same-time", "old"}},
		{"by week", domain.HistoryFilter{WeekID: "w1"}, []string{"other", "same-time", "old"}},
		{"limited", domain.HistoryFilter{Limit: 2}, []string{"new", "other"}},
		{"no match", domain.HistoryFilter{GroupID: "g9"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs, err := store.List(ctx, tt.filter)
			require.NoError(t, err)

			ids := make([]string, 0, len(runs))
			for _, r := range runs {
				ids = append(ids, r.RunID)
				assert.Nil(t, r.Document)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestStore_ListCancelledContext(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.List(ctx, domain.HistoryFilter{})

	assert.Error(t, err)
}

func TestTimeFormat_SortsAsText(t *testing.T) {
	early := time.Date(2025, time.October, 27, 9, 0, 0, 5, time.UTC)
	late := time.Date(2025, time.October, 27, 9, 0, 0, 50, time.UTC)

	assert.Less(t, formatTime(early), formatTime(late))

	parsed, err := parseTime(formatTime(late))
	require.NoError(t, err)
	assert.True(t, late.Equal(parsed))
}
