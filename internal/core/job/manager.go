package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/0edon/KairosNews/internal/core/query"
)

// Processor はクエリ処理本体のインターフェース。
// 実装はエラーを返さず、必ず結果に変換して返す契約を持つ。
type Processor interface {
	Process(ctx context.Context, params query.Params) *query.Result
}

// Manager はジョブのライフサイクルを管理する。
// Submitはレコード作成とバックグラウンド実行の起動のみを行い、
// 呼び出し元をブロックしない。キャンセルAPIは提供しない。
type Manager struct {
	store     Store
	processor Processor
	timeout   time.Duration
	logger    *slog.Logger

	wg sync.WaitGroup
}

type managerOptions struct {
	timeout time.Duration
	logger  *slog.Logger
}

// ManagerOption は Manager 構築時のオプション
type ManagerOption func(*managerOptions)

// WithTimeout は1ジョブの実行タイムアウトを設定する
func WithTimeout(timeout time.Duration) ManagerOption {
	return func(opts *managerOptions) {
		opts.timeout = timeout
	}
}

// WithManagerLogger はロガーを差し替える
func WithManagerLogger(logger *slog.Logger) ManagerOption {
	return func(opts *managerOptions) {
		opts.logger = logger
	}
}

// NewManager は新しい Manager を作成する
func NewManager(store Store, processor Processor, opts ...ManagerOption) *Manager {
	options := managerOptions{
		timeout: 5 * time.Minute,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(&options)
	}

	return &Manager{
		store:     store,
		processor: processor,
		timeout:   options.timeout,
		logger:    options.logger,
	}
}

// Submit はリクエストをジョブとして受け付け、スナップショットを即座に返す。
// ジョブはバックグラウンド実行の開始前からGetStatusで参照できる。
func (m *Manager) Submit(ctx context.Context, req Request) (*Job, error) {
	j := &Job{
		ID:        uuid.New(),
		Status:    StatusProcessing,
		CreatedAt: time.Now(),
		Request:   req,
	}

	if err := m.store.Create(ctx, j); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	m.logger.Info("job created", "jobID", j.ID, "query", req.Query)

	m.wg.Add(1)
	go m.run(j.ID, req)

	return j, nil
}

// GetStatus はジョブの現在のスナップショットを返す。
// 未知のIDの場合は ErrJobNotFound を返す。
func (m *Manager) GetStatus(ctx context.Context, id uuid.UUID) (*Job, error) {
	j, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return j, nil
}

// Wait は起動済みの全ジョブの終了を待つ（シャットダウン用）
func (m *Manager) Wait() {
	m.wg.Wait()
}

// run は1ジョブのバックグラウンド実行を監督する。
// 実行は投入元のリクエストコンテキストから切り離され、タイムアウト付きの
// 独立したコンテキストで走る。終端遷移はちょうど1回だけ行われる。
// 期限超過は結果の内容にかかわらずfailedとして扱う: 期限を跨いで返ってきた
// 結果は部分的なコンテキストで作られた可能性があるため採用しない。
func (m *Manager) run(id uuid.UUID, req Request) {
	defer m.wg.Done()

	// Processorの契約上ここには到達しないはずだが、ジョブが
	// processingのまま取り残されないよう必ずfailedへ落とす。
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("job panicked", "jobID", id, "panic", r)
			m.finish(id, StatusFailed, &query.Result{Error: fmt.Sprintf("job execution failed: %v", r)})
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	m.logger.Info("job started", "jobID", id)

	result := m.processor.Process(ctx, query.Params{
		Query:     req.Query,
		Topic:     req.Topic,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})

	// タイムアウトで打ち切られた実行はタスク障害として扱う
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		m.logger.Error("job timed out", "jobID", id, "timeout", m.timeout)
		m.finish(id, StatusFailed, &query.Result{Error: fmt.Sprintf("job timed out after %s", m.timeout)})
		return
	}

	m.finish(id, StatusCompleted, result)
	m.logger.Info("job completed", "jobID", id, "isError", result.IsError())
}

func (m *Manager) finish(id uuid.UUID, status Status, result *query.Result) {
	if err := m.store.Finish(context.Background(), id, status, result); err != nil {
		m.logger.Error("failed to finish job", "jobID", id, "error", err)
	}
}
