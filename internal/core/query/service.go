package query

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// dateLayout は日付パラメータの固定フォーマット
const dateLayout = "2006-01-02"

// Processor はクエリ処理のオーケストレータ。
// 埋め込み生成 → 固有表現抽出 → フィルタ付きベクトル検索 → 2段階要約を
// この順で実行し、エラーを外に漏らさず必ずResultに変換して返す。
type Processor struct {
	embedder   Embedder
	provider   Provider
	summarizer Summarizer
	repo       Repository
	logger     *slog.Logger
}

type processorOptions struct {
	logger *slog.Logger
}

// ProcessorOption は Processor 構築時のオプション
type ProcessorOption func(*processorOptions)

// WithLogger はロガーを差し替える
func WithLogger(logger *slog.Logger) ProcessorOption {
	return func(opts *processorOptions) {
		opts.logger = logger
	}
}

// NewProcessor は新しい Processor を作成する
func NewProcessor(embedder Embedder, provider Provider, summarizer Summarizer, repo Repository, opts ...ProcessorOption) *Processor {
	options := processorOptions{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&options)
	}

	return &Processor{
		embedder:   embedder,
		provider:   provider,
		summarizer: summarizer,
		repo:       repo,
		logger:     options.logger,
	}
}

// Process はクエリを処理して結果を返す。
// どの段階で失敗してもエラー結果に変換され、呼び出し元にエラーが
// 伝播することはない。
func (p *Processor) Process(ctx context.Context, params Params) (result *Result) {
	// 最終防衛線: 予期しないpanicもエラー結果に変換する
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("query processing panicked", "panic", r)
			result = &Result{Error: fmt.Sprintf("unexpected failure: %v", r)}
		}
	}()

	// 1. 日付パラメータの検証
	startDate, err := parseDate(params.StartDate)
	if err != nil {
		p.logger.Error("invalid start_date", "error", err)
		return errorResult(err)
	}
	endDate, err := parseDate(params.EndDate)
	if err != nil {
		p.logger.Error("invalid end_date", "error", err)
		return errorResult(err)
	}

	// 2. クエリの埋め込みと固有表現抽出
	embedding, err := p.embedder.Embed(ctx, params.Query)
	if err != nil {
		p.logger.Error("failed to embed query", "error", err)
		return errorResult(fmt.Errorf("failed to embed query: %w", err))
	}

	entities, err := p.provider.ExtractEntities(ctx, params.Query)
	if err != nil {
		// 固有表現はフィルタの補助でしかないため、失敗しても処理は続行する
		p.logger.Warn("entity extraction failed, continuing without entities", "error", err)
		entities = nil
	}
	p.logger.Info("extracted entities", "count", len(entities))

	// 3. ベクトル検索（検索の失敗はここで結果に変換する）
	articles, err := p.repo.Search(ctx, SearchParams{
		Embedding: embedding,
		StartDate: startDate,
		EndDate:   endDate,
		Topic:     params.Topic,
		Entities:  entities,
	})
	if err != nil {
		p.logger.Error("semantic search failed", "error", err)
		return errorResult(fmt.Errorf("semantic search failed: %w", err))
	}

	// 4. 該当なしは正常系
	if len(articles) == 0 {
		return noArticlesResult()
	}

	// 5. 要約生成（ベストエフォート、失敗しても結果は返す）
	p.logger.Info("starting summary generation", "articles", len(articles))
	summary := p.generateSummary(ctx, articles)

	return &Result{
		Summary:  summary,
		Articles: articles,
		Entities: entities,
	}
}

// parseDate は日付文字列を検証付きでパースする。nilはそのまま返す。
func parseDate(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, fmt.Errorf("invalid date format: expected YYYY-MM-DD, got %s", *s)
	}
	return &t, nil
}
