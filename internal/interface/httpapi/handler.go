package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/0edon/KairosNews/internal/core/job"
)

// JobService はハンドラが必要とするジョブ操作のインターフェース
type JobService interface {
	Submit(ctx context.Context, req job.Request) (*job.Job, error)
	GetStatus(ctx context.Context, id uuid.UUID) (*job.Job, error)
}

// handler はHTTPエンドポイントの実装を保持する
type handler struct {
	jobs   JobService
	logger *slog.Logger
}

// root は稼働確認用のエンドポイント
func (h *handler) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Kairos News API is running"})
}

// createJob はクエリを受け付けてジョブを作成する。
// レスポンスはprocessing状態のスナップショットを即座に返す。
func (h *handler) createJob(c *gin.Context) {
	var req job.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	j, err := h.jobs.Submit(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("failed to submit job", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to create job"})
		return
	}

	c.JSON(http.StatusOK, j)
}

// getJobStatus はジョブの現在のスナップショットを返す
func (h *handler) getJobStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Query("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid job id"})
		return
	}

	j, err := h.jobs.GetStatus(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, job.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Job not found"})
			return
		}
		h.logger.Error("failed to get job status", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to get job status"})
		return
	}

	c.JSON(http.StatusOK, j)
}
