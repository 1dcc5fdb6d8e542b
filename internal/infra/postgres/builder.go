package postgres

import (
	"fmt"
	"strings"

	pgvector "github.com/pgvector/pgvector-go"

	"github.com/0edon/KairosNews/internal/core/query"
)

// searchStatement は組み立て済みの検索クエリを表す
type searchStatement struct {
	SQL  string
	Args []any

	// Filtered はいずれかの絞り込み条件が適用されたかどうか。
	// フォールバック再実行の要否判定に使う。
	Filtered bool
}

// buildSearchQuery は任意条件を段階的に合成して検索クエリを組み立てる。
// 条件は固定の述語句（日付範囲・トピック・固有表現のOR）のみで構成され、
// 利用者由来の値はすべてプレースホルダで束縛する。リテラル連結はしない。
func buildSearchQuery(params query.SearchParams) searchStatement {
	var b strings.Builder
	args := []any{pgvector.NewVector(params.Embedding)}
	filtered := false

	b.WriteString("WITH filtered_articles AS (\n")
	b.WriteString("    SELECT article_id\n")
	b.WriteString("    FROM articles.articles\n")
	b.WriteString("    WHERE 1=1")

	// 日付範囲は両端が揃ったときだけ適用する（両端含む）
	if params.StartDate != nil && params.EndDate != nil {
		args = append(args, *params.StartDate, *params.EndDate)
		fmt.Fprintf(&b, "\n      AND date BETWEEN $%d AND $%d", len(args)-1, len(args))
		filtered = true
	}

	if params.Topic != nil {
		args = append(args, *params.Topic)
		fmt.Fprintf(&b, "\n      AND topic = $%d", len(args))
		filtered = true
	}

	b.WriteString("\n)")

	source := "filtered_articles"
	if len(params.Entities) > 0 {
		filtered = true
		source = "target_articles"

		// 固有表現はOR結合: いずれか1つでも一致する記事に絞り込む。
		// テキストは事前に正規化済みの値を束縛し、カラム側だけを
		// LOWER(UNACCENT(...))で揃える。ラベルは厳密一致。
		b.WriteString(",\ntarget_articles AS (\n")
		b.WriteString("    SELECT DISTINCT article_id\n")
		b.WriteString("    FROM articles.ner\n")
		b.WriteString("    WHERE (")
		for i, entity := range params.Entities {
			if i > 0 {
				b.WriteString(" OR ")
			}
			args = append(args, query.NormalizeEntityText(entity.Text))
			textArg := len(args)
			args = append(args, entity.Label)
			fmt.Fprintf(&b, "(LOWER(UNACCENT(word)) = $%d AND entity_group = $%d)", textArg, len(args))
		}
		b.WriteString(")\n")
		b.WriteString("      AND article_id IN (SELECT article_id FROM filtered_articles)\n")
		b.WriteString(")")
	}

	args = append(args, params.Limit)
	fmt.Fprintf(&b, `
SELECT
    a.content,
    a.embedding <=> $1 AS distance,
    a.date,
    a.topic,
    a.url
FROM articles.articles a
JOIN %s t ON a.article_id = t.article_id
ORDER BY distance
LIMIT $%d`, source, len(args))

	return searchStatement{
		SQL:      b.String(),
		Args:     args,
		Filtered: filtered,
	}
}

// buildFallbackQuery は全コーパスを対象とする無条件の近傍検索クエリを組み立てる
func buildFallbackQuery(embedding []float32, limit int) searchStatement {
	sql := `
SELECT
    content,
    embedding <=> $1 AS distance,
    date,
    topic,
    url
FROM articles.articles
ORDER BY distance
LIMIT $2`

	return searchStatement{
		SQL:  sql,
		Args: []any{pgvector.NewVector(embedding), limit},
	}
}
