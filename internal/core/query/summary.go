package query

import (
	"context"
	"strings"
)

const (
	// maxSummaryArticles は要約に使う記事数の上限
	maxSummaryArticles = 5

	// maxKeySentences は抽出型段階で選ぶ文数の上限
	maxKeySentences = 10

	// similarityThreshold は中心性計算で無視する類似度の下限
	similarityThreshold = 0.1

	noContentMessage     = "No content available for summarization"
	summaryFailedMessage = "Summary generation failed"
)

// generateSummary は記事群から2段階で要約を生成する。
// まず次数中心性で代表的な文を抽出し、その結合テキストを抽象型要約で圧縮する。
// 要約はベストエフォートであり、どの段階の失敗も固定メッセージに縮退する。
func (p *Processor) generateSummary(ctx context.Context, articles []*Article) string {
	limit := len(articles)
	if limit > maxSummaryArticles {
		limit = maxSummaryArticles
	}

	// 候補文プールの構築
	var sentences []string
	for _, article := range articles[:limit] {
		if article.Content == "" {
			continue
		}
		split, err := p.provider.SplitSentences(ctx, article.Content)
		if err != nil {
			p.logger.Error("sentence tokenization failed", "error", err)
			return summaryFailedMessage
		}
		sentences = append(sentences, split...)
	}

	if len(sentences) == 0 {
		p.logger.Warn("no sentences available for summarization")
		return noContentMessage
	}

	// 抽出型段階: 全文を埋め込み、中心性の高い文を選ぶ
	embeddings, err := p.embedder.BatchEmbed(ctx, sentences)
	if err != nil {
		p.logger.Error("sentence embedding failed", "error", err)
		return summaryFailedMessage
	}

	matrix := cosineSimilarityMatrix(embeddings)
	scores := degreeCentralityScores(matrix, similarityThreshold)

	keySentences := make([]string, 0, maxKeySentences)
	for _, idx := range topIndices(scores, maxKeySentences) {
		keySentences = append(keySentences, strings.TrimSpace(sentences[idx]))
	}
	combined := strings.Join(keySentences, " ")

	p.logger.Info("extractive stage done", "keySentences", len(keySentences))

	// 抽象型段階: 結合テキストを圧縮する
	summary, err := p.summarizer.Summarize(ctx, combined)
	if err != nil {
		p.logger.Error("abstractive summarization failed", "error", err)
		return summaryFailedMessage
	}

	return summary
}
