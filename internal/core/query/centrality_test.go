package query

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarityMatrix(t *testing.T) {
	vectors := [][]float32{
		{1, 0},
		{0, 1},
		{1, 0},
	}

	matrix := cosineSimilarityMatrix(vectors)

	require.Len(t, matrix, 3)
	assert.InDelta(t, 1.0, matrix[0][0], 1e-9)
	assert.InDelta(t, 0.0, matrix[0][1], 1e-9)
	assert.InDelta(t, 1.0, matrix[0][2], 1e-9)
	assert.InDelta(t, matrix[1][2], matrix[2][1], 1e-9)
}

func TestCosineSimilarityMatrix_ZeroVector(t *testing.T) {
	vectors := [][]float32{
		{0, 0},
		{1, 1},
	}

	matrix := cosineSimilarityMatrix(vectors)

	// ゼロベクトルとの類似度は0として扱う
	assert.Equal(t, 0.0, matrix[0][1])
	assert.Equal(t, 0.0, matrix[1][0])
}

func TestDegreeCentralityScores_ThresholdZeroesWeakLinks(t *testing.T) {
	matrix := [][]float64{
		{1.0, 0.05, 0.5},
		{0.05, 1.0, 0.05},
		{0.5, 0.05, 1.0},
	}

	scores := degreeCentralityScores(matrix, 0.1)

	// 閾値未満の辺は無視され、自己類似も加算されない
	assert.InDelta(t, 0.5, scores[0], 1e-9)
	assert.InDelta(t, 0.0, scores[1], 1e-9)
	assert.InDelta(t, 0.5, scores[2], 1e-9)
}

func TestDegreeCentralityScores_OrderEquivariant(t *testing.T) {
	// スコアは文の内容だけで決まる純関数であり、入力順の影響を受けない
	rng := rand.New(rand.NewSource(42))
	vectors := make([][]float32, 6)
	for i := range vectors {
		vectors[i] = []float32{rng.Float32(), rng.Float32(), rng.Float32()}
	}

	base := degreeCentralityScores(cosineSimilarityMatrix(vectors), 0.1)

	perm := []int{3, 0, 5, 1, 4, 2}
	permuted := make([][]float32, len(vectors))
	for i, p := range perm {
		permuted[i] = vectors[p]
	}

	permutedScores := degreeCentralityScores(cosineSimilarityMatrix(permuted), 0.1)

	for i, p := range perm {
		assert.InDelta(t, base[p], permutedScores[i], 1e-9)
	}
}

func TestTopIndices(t *testing.T) {
	scores := []float64{0.2, 0.9, 0.5, 0.7}

	top := topIndices(scores, 2)

	assert.Equal(t, []int{1, 3}, top)
}

func TestTopIndices_KExceedsPool(t *testing.T) {
	scores := []float64{0.2, 0.9, 0.5}

	top := topIndices(scores, 10)

	// 要素数を超えるkは全件に丸める
	assert.Len(t, top, 3)
}

func TestTopIndices_StableOnTies(t *testing.T) {
	scores := []float64{0.5, 0.5, 0.5}

	top := topIndices(scores, 3)

	assert.Equal(t, []int{0, 1, 2}, top)
}
