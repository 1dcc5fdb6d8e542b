package job

import (
	"time"

	"github.com/google/uuid"

	"github.com/0edon/KairosNews/internal/core/query"
)

// Status はジョブの状態を表す
type Status string

const (
	// StatusProcessing は実行中（初期状態）
	StatusProcessing Status = "processing"
	// StatusCompleted は正常終了（終端状態）
	StatusCompleted Status = "completed"
	// StatusFailed は異常終了（終端状態）
	StatusFailed Status = "failed"
)

// Terminal は終端状態かどうかを返す
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Request はクエリ投入時のリクエストを表す
type Request struct {
	Query     string  `json:"query" binding:"required"`
	Topic     *string `json:"topic,omitempty"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
}

// Job は非同期に実行される1回のクエリ処理を表す。
// 作成時にprocessing状態で保存され、バックグラウンド実行の終了時に
// ちょうど1回だけ終端状態へ遷移する。削除されることはない。
type Job struct {
	ID          uuid.UUID     `json:"id"`
	Status      Status        `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
	Request     Request       `json:"request"`
	Result      *query.Result `json:"result,omitempty"`
}
