package job

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/0edon/KairosNews/internal/core/query"
)

// ErrJobNotFound は未知のジョブIDを参照した場合のエラー
var ErrJobNotFound = errors.New("job not found")

// Store はジョブレコードの保管先を表す。
// プロセス生存期間のみの保管で、再起動をまたぐ永続化は行わない。
type Store interface {
	// Create はジョブを保存する
	Create(ctx context.Context, j *Job) error

	// Get はジョブの現在のスナップショットを返す
	Get(ctx context.Context, id uuid.UUID) (*Job, error)

	// Finish はジョブを終端状態へ遷移させる。
	// すでに終端状態のジョブに対しては何もしない。
	Finish(ctx context.Context, id uuid.UUID, status Status, result *query.Result) error
}

// MemoryStore はmutexで保護されたインメモリのジョブストア
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]*Job
}

// NewMemoryStore は新しい MemoryStore を作成する
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		jobs: make(map[uuid.UUID]*Job),
	}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Create(ctx context.Context, j *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *j
	s.jobs[j.ID] = &copied
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id uuid.UUID) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}

	// 呼び出し側の変更がストアへ波及しないようコピーを返す
	copied := *j
	return &copied, nil
}

func (s *MemoryStore) Finish(ctx context.Context, id uuid.UUID, status Status, result *query.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	if j.Status.Terminal() {
		// 終端状態は吸収する（2回目以降の遷移は無視）
		return nil
	}

	now := time.Now()
	j.Status = status
	j.CompletedAt = &now
	j.Result = result
	return nil
}
