package query

import (
	"context"
	"time"
)

// Embedder はテキストのEmbedding生成インターフェース
type Embedder interface {
	// Embed は単一テキストのEmbeddingを生成する
	Embed(ctx context.Context, text string) ([]float32, error)

	// BatchEmbed は複数テキストのEmbeddingをまとめて生成する（入力1件につき1ベクトル）
	BatchEmbed(ctx context.Context, texts []string) ([][]float32, error)
}

// Provider は固有表現抽出と文分割を提供するインターフェース
type Provider interface {
	// ExtractEntities はテキストから固有表現を抽出する。
	// 複数要素を渡した場合はスペースで連結して1つのテキストとして扱う。
	ExtractEntities(ctx context.Context, text ...string) ([]Entity, error)

	// SplitSentences はテキストを文単位に分割する。
	// 分割に失敗しても全文を1文として返すため、結果が空になることはない。
	SplitSentences(ctx context.Context, text string) ([]string, error)
}

// Summarizer は抽象型要約（短縮された新しい文章の生成）のインターフェース
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// SearchParams は記事検索の条件を表す。
// StartDate/EndDateは両方揃ったときだけ日付範囲として適用される。
type SearchParams struct {
	Embedding []float32
	StartDate *time.Time
	EndDate   *time.Time
	Topic     *string
	Entities  []Entity
	Limit     int
}

// Repository は記事のベクトル検索を実行するインターフェース。
// フィルタ付き検索が0件の場合のフォールバックは実装側が持つ。
// 検索の失敗はエラーとして呼び出し元に返す（握りつぶさない）。
type Repository interface {
	Search(ctx context.Context, params SearchParams) ([]*Article, error)
}
