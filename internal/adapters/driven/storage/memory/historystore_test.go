package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wWordDevw/terap-ia/internal/core/domain"
)

func run(id, group, week string, at time.Time) domain.RunRecord {
	return domain.RunRecord{
		RunID:       id,
		GroupID:     group,
		WeekID:      week,
		GeneratedAt: at,
		Summary:     domain.Summary{Verified: 1, Passed: 1},
		Digest:      "sha256:" + id,
		Document:    []byte(`{"run":"` + id + `"}`),
	}
}

func TestNewHistoryStore(t *testing.T) {
	store := NewHistoryStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.runs)
}

func TestHistoryStore_SaveAndGet(t *testing.T) {
	store := NewHistoryStore()
	ctx := context.Background()
	at := time.Date(2025, time.October, 27, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, run("r1", "g1", "w1", at)))

	got, err := store.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "g1", got.GroupID)
	assert.Equal(t, `{"run":"r1"}`, string(got.Document))
	assert.True(t, got.Passed())
}

func TestHistoryStore_SaveReplaces(t *testing.T) {
	store := NewHistoryStore()
	ctx := context.Background()
	at := time.Now()

	require.NoError(t, store.Save(ctx, run("r1", "g1", "w1", at)))
	require.NoError(t, store.Save(ctx, run("r1", "g2", "w1", at)))

	runs, err := store.List(ctx, domain.HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "g2", runs[0].GroupID)
}

func TestHistoryStore_GetNotFound(t *testing.T) {
	_, err := NewHistoryStore().Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHistoryStore_GetReturnsCopy(t *testing.T) {
	store := NewHistoryStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, run("r1", "g1", "w1", time.Now())))

	got, err := store.Get(ctx, "r1")
	require.NoError(t, err)
	got.Document[0] = 'x'

	again, err := store.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, byte('{'), again.Document[0])
}

func TestHistoryStore_List(t *testing.T) {
	store := NewHistoryStore()
	ctx := context.Background()
	base := time.Date(2025, time.October, 27, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, run("old", "g1", "w1", base)))
	require.NoError(t, store.Save(ctx, run("new", "g1", "w2", base.Add(time.Hour))))
	require.NoError(t, store.Save(ctx, run("other", "g2", "w1", base.Add(30*time.Minute))))
	require.NoError(t, store.Save(ctx, run("same-time", "g1", "w1", base)))

	tests := []struct {
		name   string
		filter domain.HistoryFilter
		want   []string
	}{
		{"all newest first", domain.HistoryFilter{}, []string{"new", "other", "same-time", "old"}},
		{"by group", domain.HistoryFilter{GroupID: "g1"}, []string{"new", "same-time", "old"}},
		{"by group and week", domain.HistoryFilter{GroupID: "g1", WeekID: "w1"}, []string{"same-time", "old"}},
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

func TestHistoryStore_Concurrent(t *testing.T) {
	store := NewHistoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + i))
			_ = store.Save(ctx, run(id, "g1", "w1", time.Now()))
			_, _ = store.List(ctx, domain.HistoryFilter{})
		}(i)
	}
	wg.Wait()

	runs, err := store.List(ctx, domain.HistoryFilter{Limit: 100})
	require.NoError(t, err)
	assert.Len(t, runs, 20)
}
