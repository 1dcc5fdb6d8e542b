package job

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0edon/KairosNews/internal/core/query"
)

func TestMemoryStore_CreateAndGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	j := &Job{
		ID:        uuid.New(),
		Status:    StatusProcessing,
		CreatedAt: time.Now(),
		Request:   Request{Query: "eleições 2023"},
	}

	require.NoError(t, store.Create(ctx, j))

	got, err := store.Get(ctx, j.ID)
	require.NoError(t, err)
	assert.Equal(t, j.ID, got.ID)
	assert.Equal(t, StatusProcessing, got.Status)
	assert.Nil(t, got.CompletedAt)
	assert.Nil(t, got.Result)
}

func TestMemoryStore_GetReturnsSnapshot(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	j := &Job{ID: uuid.New(), Status: StatusProcessing}
	require.NoError(t, store.Create(ctx, j))

	got, err := store.Get(ctx, j.ID)
	require.NoError(t, err)

	// 取得したスナップショットを書き換えてもストアには波及しない
	got.Status = StatusFailed

	again, err := store.Get(ctx, j.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, again.Status)
}

func TestMemoryStore_GetUnknownID(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), uuid.New())

	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestMemoryStore_Finish(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	j := &Job{ID: uuid.New(), Status: StatusProcessing}
	require.NoError(t, store.Create(ctx, j))

	result := &query.Result{Summary: "resumo", Articles: []*query.Article{{Content: "x"}}}
	require.NoError(t, store.Finish(ctx, j.ID, StatusCompleted, result))

	got, err := store.Get(ctx, j.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)
	assert.Equal(t, result, got.Result)
}

func TestMemoryStore_FinishIsAbsorbing(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	j := &Job{ID: uuid.New(), Status: StatusProcessing}
	require.NoError(t, store.Create(ctx, j))

	first := &query.Result{Summary: "primeiro"}
	require.NoError(t, store.Finish(ctx, j.ID, StatusCompleted, first))

	// 2回目の終端遷移は無視される
	second := &query.Result{Error: "segundo"}
	require.NoError(t, store.Finish(ctx, j.ID, StatusFailed, second))

	got, err := store.Get(ctx, j.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
	assert.Equal(t, first, got.Result)
}

func TestMemoryStore_FinishUnknownID(t *testing.T) {
	store := NewMemoryStore()

	err := store.Finish(context.Background(), uuid.New(), StatusCompleted, nil)

	assert.ErrorIs(t, err, ErrJobNotFound)
}
