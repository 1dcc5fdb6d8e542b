package query

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSummary_NoContent(t *testing.T) {
	processor := newTestProcessor(
		&stubEmbedder{vector: []float32{1}},
		&stubProvider{},
		&stubSummarizer{},
		&stubRepo{},
	)

	articles := []*Article{
		{Content: ""},
		{Content: ""},
	}

	summary := processor.generateSummary(context.Background(), articles)

	assert.Equal(t, "No content available for summarization", summary)
}

func TestGenerateSummary_PoolSmallerThanTarget(t *testing.T) {
	// 3文しかないプールでは、目標10件でも最大3文しか選ばれない
	summarizer := &stubSummarizer{summary: "resumo"}
	processor := newTestProcessor(
		&stubEmbedder{vector: []float32{1, 0}},
		&stubProvider{},
		summarizer,
		&stubRepo{},
	)

	articles := []*Article{
		{Content: "Primeira frase. Segunda frase. Terceira frase."},
	}

	summary := processor.generateSummary(context.Background(), articles)

	assert.Equal(t, "resumo", summary)
	sentences := strings.SplitAfter(summarizer.lastInput, ".")
	count := 0
	for _, s := range sentences {
		if strings.TrimSpace(s) != "" {
			count++
		}
	}
	assert.LessOrEqual(t, count, 3)
	assert.Contains(t, summarizer.lastInput, "Primeira frase.")
}

func TestGenerateSummary_UsesAtMostFiveArticles(t *testing.T) {
	provider := &stubProvider{}
	processor := newTestProcessor(
		&stubEmbedder{vector: []float32{1}},
		provider,
		&stubSummarizer{summary: "resumo"},
		&stubRepo{},
	)

	articles := make([]*Article, 7)
	for i := range articles {
		articles[i] = &Article{Content: "Uma frase."}
	}

	processor.generateSummary(context.Background(), articles)

	assert.Equal(t, 5, provider.splitCalls)
}

func TestGenerateSummary_EmbedFaultDegrades(t *testing.T) {
	processor := newTestProcessor(
		&stubEmbedder{
			vector: []float32{1},
			batchFn: func(texts []string) ([][]float32, error) {
				return nil, errors.New("embedding backend down")
			},
		},
		&stubProvider{},
		&stubSummarizer{},
		&stubRepo{},
	)

	summary := processor.generateSummary(context.Background(), []*Article{{Content: "Uma frase."}})

	assert.Equal(t, "Summary generation failed", summary)
}

func TestGenerateSummary_SummarizerFaultDegrades(t *testing.T) {
	processor := newTestProcessor(
		&stubEmbedder{vector: []float32{1}},
		&stubProvider{},
		&stubSummarizer{err: errors.New("completion failed")},
		&stubRepo{},
	)

	summary := processor.generateSummary(context.Background(), []*Article{{Content: "Uma frase."}})

	assert.Equal(t, "Summary generation failed", summary)
}

func TestGenerateSummary_TokenizationFaultDegrades(t *testing.T) {
	processor := newTestProcessor(
		&stubEmbedder{vector: []float32{1}},
		&stubProvider{
			splitFn: func(text string) ([]string, error) {
				return nil, errors.New("sidecar down")
			},
		},
		&stubSummarizer{},
		&stubRepo{},
	)

	summary := processor.generateSummary(context.Background(), []*Article{{Content: "Uma frase."}})

	assert.Equal(t, "Summary generation failed", summary)
}

func TestGenerateSummary_TrimsSelectedSentences(t *testing.T) {
	summarizer := &stubSummarizer{summary: "resumo"}
	processor := newTestProcessor(
		&stubEmbedder{vector: []float32{1, 1}},
		&stubProvider{
			splitFn: func(text string) ([]string, error) {
				return []string{"  Primeira frase.  ", "\tSegunda frase.\n"}, nil
			},
		},
		summarizer,
		&stubRepo{},
	)

	processor.generateSummary(context.Background(), []*Article{{Content: "x"}})

	assert.Equal(t, "Primeira frase. Segunda frase.", summarizer.lastInput)
}
