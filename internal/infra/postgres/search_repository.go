package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/0edon/KairosNews/internal/core/query"
)

// querier は検索クエリの実行先を表す。
// *pgxpool.Conn が実装する最小の面だけを切り出している。
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// defaultLimit は検索件数の上限の既定値
const defaultLimit = 10

// SearchRepository は query.Repository を実装する PostgreSQL リポジトリ。
// コネクションは検索1回ごとにプールから取得して返却する。
type SearchRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
	limit  int
}

type searchRepositoryOptions struct {
	logger *slog.Logger
	limit  int
}

// SearchRepositoryOption は SearchRepository 構築時のオプション
type SearchRepositoryOption func(*searchRepositoryOptions)

// WithSearchLogger はロガーを差し替える
func WithSearchLogger(logger *slog.Logger) SearchRepositoryOption {
	return func(opts *searchRepositoryOptions) {
		opts.logger = logger
	}
}

// WithSearchLimit は件数上限の既定値を上書きする
func WithSearchLimit(limit int) SearchRepositoryOption {
	return func(opts *searchRepositoryOptions) {
		opts.limit = limit
	}
}

// NewSearchRepository は新しい SearchRepository を返す
func NewSearchRepository(pool *pgxpool.Pool, opts ...SearchRepositoryOption) *SearchRepository {
	options := searchRepositoryOptions{
		logger: slog.Default(),
		limit:  defaultLimit,
	}
	for _, opt := range opts {
		opt(&options)
	}

	return &SearchRepository{
		pool:   pool,
		logger: options.logger,
		limit:  options.limit,
	}
}

var _ query.Repository = (*SearchRepository)(nil)

// Search はフィルタ付きの近傍検索を実行する。
// フィルタ適用後に1件も取れなかった場合は、条件を全て外した
// 純粋な近傍検索で再実行する（過剰に特化したフィルタで空振り
// させないための意図的なトレードオフ）。
func (r *SearchRepository) Search(ctx context.Context, params query.SearchParams) ([]*query.Article, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Release()

	return r.search(ctx, conn, params)
}

func (r *SearchRepository) search(ctx context.Context, q querier, params query.SearchParams) ([]*query.Article, error) {
	if params.Limit <= 0 {
		params.Limit = r.limit
	}

	stmt := buildSearchQuery(params)
	articles, err := r.execute(ctx, q, stmt)
	if err != nil {
		return nil, fmt.Errorf("filtered search failed: %w", err)
	}

	if len(articles) == 0 && stmt.Filtered {
		r.logger.Info("no articles matched filters, retrying without filters")
		fallback := buildFallbackQuery(params.Embedding, params.Limit)
		articles, err = r.execute(ctx, q, fallback)
		if err != nil {
			return nil, fmt.Errorf("fallback search failed: %w", err)
		}
	}

	return articles, nil
}

func (r *SearchRepository) execute(ctx context.Context, q querier, stmt searchStatement) ([]*query.Article, error) {
	rows, err := q.Query(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	articles := make([]*query.Article, 0)
	for rows.Next() {
		var article query.Article
		if err := rows.Scan(&article.Content, &article.Distance, &article.Date, &article.Topic, &article.URL); err != nil {
			return nil, fmt.Errorf("failed to scan article row: %w", err)
		}
		articles = append(articles, &article)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return articles, nil
}
