package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/0edon/KairosNews/internal/core/job"
	"github.com/0edon/KairosNews/internal/core/query"
	"github.com/0edon/KairosNews/internal/infra/nlp"
	infraopenai "github.com/0edon/KairosNews/internal/infra/openai"
	"github.com/0edon/KairosNews/internal/infra/postgres"
	"github.com/0edon/KairosNews/internal/interface/httpapi"
	"github.com/0edon/KairosNews/internal/platform/config"
	"github.com/0edon/KairosNews/internal/platform/database"
	"github.com/0edon/KairosNews/internal/platform/logger"
)

// serverStartAction はHTTPサーバを起動するコマンドのアクション
func serverStartAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("env"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logg := logger.New(logger.DefaultConfig())

	db, err := database.New(ctx, database.ConnectionParams{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	slog.Info("database connected", "host", cfg.Database.Host, "dbname", cfg.Database.DBName)

	// 外部モデルのアダプタ
	embedder, err := infraopenai.NewEmbedder(cfg.OpenAI.APIKey,
		infraopenai.WithEmbeddingModel(cfg.OpenAI.EmbeddingModel),
		infraopenai.WithEmbeddingDimension(cfg.OpenAI.EmbeddingDimension),
	)
	if err != nil {
		return err
	}

	summarizer, err := infraopenai.NewSummarizer(cfg.OpenAI.APIKey,
		infraopenai.WithSummaryModel(cfg.OpenAI.SummaryModel),
		infraopenai.WithMaxOutputTokens(cfg.OpenAI.SummaryMaxTokens),
	)
	if err != nil {
		return err
	}

	nlpClient := nlp.NewClient(cfg.NLP.Endpoint, cfg.NLP.APIKey,
		nlp.WithClientTimeout(cfg.NLP.Timeout),
	)

	// 検索とオーケストレーション
	searchRepo := postgres.NewSearchRepository(db.Pool,
		postgres.WithSearchLogger(logg),
		postgres.WithSearchLimit(cfg.Search.Limit),
	)
	processor := query.NewProcessor(embedder, nlpClient, summarizer, searchRepo,
		query.WithLogger(logg),
	)

	// ジョブ管理
	manager := job.NewManager(job.NewMemoryStore(), processor,
		job.WithTimeout(cfg.Job.Timeout),
		job.WithManagerLogger(logg),
	)

	server := httpapi.NewServer(manager,
		httpapi.WithServerLogger(logg),
	)

	addr := cmd.String("addr")
	if addr == "" {
		addr = cfg.Server.Addr
	}

	if err := server.Run(ctx, addr); err != nil {
		return fmt.Errorf("http server failed: %w", err)
	}

	// 実行中ジョブを波及させずに終える
	slog.Info("waiting for in-flight jobs")
	manager.Wait()

	return nil
}
