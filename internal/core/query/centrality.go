package query

import (
	"math"
	"sort"
)

// cosineSimilarityMatrix は全ベクトル対のコサイン類似度行列を計算する
func cosineSimilarityMatrix(vectors [][]float32) [][]float64 {
	n := len(vectors)
	norms := make([]float64, n)
	for i, v := range vectors {
		var sum float64
		for _, x := range v {
			sum += float64(x) * float64(x)
		}
		norms[i] = math.Sqrt(sum)
	}

	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
		for j := 0; j <= i; j++ {
			sim := 0.0
			if norms[i] > 0 && norms[j] > 0 {
				var dot float64
				for k := range vectors[i] {
					dot += float64(vectors[i][k]) * float64(vectors[j][k])
				}
				sim = dot / (norms[i] * norms[j])
			}
			matrix[i][j] = sim
			matrix[j][i] = sim
		}
	}
	return matrix
}

// degreeCentralityScores は次数中心性による文スコアを計算する。
// 各文について、閾値未満を0とみなした他文との類似度の総和をスコアとする。
// 多くの文と似ている「談話の中心」にある文ほど高いスコアになる。
func degreeCentralityScores(matrix [][]float64, threshold float64) []float64 {
	scores := make([]float64, len(matrix))
	for i, row := range matrix {
		var total float64
		for j, sim := range row {
			if i == j {
				continue // 自己類似は順位に影響しないため除外
			}
			if sim >= threshold {
				total += sim
			}
		}
		scores[i] = total
	}
	return scores
}

// topIndices はスコア降順で上位k件のインデックスを返す。
// kが要素数を超える場合は全件を返す。同点は元の並び順を保つ。
func topIndices(scores []float64, k int) []int {
	indices := make([]int, len(scores))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(a, b int) bool {
		return scores[indices[a]] > scores[indices[b]]
	})
	if k > len(indices) {
		k = len(indices)
	}
	return indices[:k]
}
