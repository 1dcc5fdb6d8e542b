package openai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmbedder_RequiresAPIKey(t *testing.T) {
	_, err := NewEmbedder("")

	assert.ErrorIs(t, err, ErrAPIKeyNotSet)
}

func TestNewEmbedder_Defaults(t *testing.T) {
	embedder, err := NewEmbedder("test-key")
	require.NoError(t, err)

	assert.Equal(t, DefaultEmbeddingModel, embedder.ModelName())
	assert.Equal(t, DefaultEmbeddingDimension, embedder.Dimension())
}

func TestNewEmbedder_Options(t *testing.T) {
	embedder, err := NewEmbedder("test-key",
		WithEmbeddingModel("text-embedding-3-large"),
		WithEmbeddingDimension(3072),
	)
	require.NoError(t, err)

	assert.Equal(t, "text-embedding-3-large", embedder.ModelName())
	assert.Equal(t, 3072, embedder.Dimension())
}

func TestBatchEmbed_RejectsEmptyInput(t *testing.T) {
	embedder, err := NewEmbedder("test-key")
	require.NoError(t, err)

	_, err = embedder.BatchEmbed(context.Background(), nil)

	assert.Error(t, err)
}

func TestNewSummarizer_RequiresAPIKey(t *testing.T) {
	_, err := NewSummarizer("")

	assert.ErrorIs(t, err, ErrAPIKeyNotSet)
}
