// Package similarity 是基于内容的商品相似度引擎（Content-Based Similarity）。
//
// 两条打分路径：
//   - ProductSimilarity: 类别/标签/价格三分量加权求和，是商品对商品
//     排序的规范度量（不是余弦相似度）
//   - CosineSimilarity: 对 feature.SimilarityVector 的余弦相似度，
//     供推荐引擎的内容 fallback 使用
package similarity

import (
	"context"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/rs/zerolog"
	"github.com/rushteam/commercekit/core"
	"github.com/rushteam/commercekit/feature"
)

// 加权分量。三个分量都命中时恰好为 1.0（自相似）。
const (
	categoryWeight = 0.4 // 类别完全匹配
	tagWeight      = 0.3 // 标签 Jaccard 重叠
	priceWeight    = 0.3 // 价格接近度
)

// Engine 是相似度引擎。无内部状态，可并发使用。
type Engine struct {
	logger zerolog.Logger
}

type Option func(*Engine)

func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

func New(opts ...Option) *Engine {
	e := &Engine{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ProductSimilarity 计算两个商品的加权相似度，范围约 [0, 1]：
//   - 类别完全一致：+0.4
//   - 标签集合 Jaccard 重叠率 × 0.3（任一标签集为空则跳过）
//   - (1 - 相对价差) × 0.3（任一价格 <= 0 则跳过）
func (e *Engine) ProductSimilarity(a, b core.Product) float64 {
	var score float64

	if a.Category == b.Category {
		score += categoryWeight
	}

	if len(a.Tags) > 0 && len(b.Tags) > 0 {
		score += jaccard(a.Tags, b.Tags) * tagWeight
	}

	if a.BasePrice > 0 && b.BasePrice > 0 {
		diff := math.Abs(a.BasePrice-b.BasePrice) / math.Max(a.BasePrice, b.BasePrice)
		score += (1 - diff) * priceWeight
	}

	return score
}

// SimilarProducts 按加权相似度降序返回与 target 最相似的至多 limit 个
// 商品 ID。target 自身（按 ID）被排除；同分保持候选的输入顺序（稳定排序）。
func (e *Engine) SimilarProducts(target core.Product, candidates []core.Product, limit int) []string {
	return e.rank(target, candidates, limit, func(c core.Product) float64 {
		return e.ProductSimilarity(target, c)
	})
}

// SimilarByVector 是向量路径：对 feature.SimilarityVector 求余弦相似度。
// 推荐引擎的内容 fallback 走这条路径。
func (e *Engine) SimilarByVector(target core.Product, candidates []core.Product, limit int) []string {
	targetVec := feature.SimilarityVector(target)
	return e.rank(target, candidates, limit, func(c core.Product) float64 {
		return CosineSimilarity(targetVec, feature.SimilarityVector(c))
	})
}

func (e *Engine) rank(target core.Product, candidates []core.Product, limit int, score func(core.Product) float64) []string {
	if len(candidates) == 0 {
		return []string{}
	}

	type scored struct {
		id    string
		score float64
	}
	scores := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == target.ID {
			continue
		}
		scores = append(scores, scored{id: c.ID, score: score(c)})
	}

	// 稳定排序：同分保持输入顺序
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})

	if limit > 0 && len(scores) > limit {
		scores = scores[:limit]
	}
	out := make([]string, 0, len(scores))
	for _, s := range scores {
		out = append(out, s.id)
	}
	return out
}

// Matrix 计算全量商品两两相似度矩阵（对角线为 0），行间并发计算。
// 用于离线分析，矩阵不持久化。
func (e *Engine) Matrix(ctx context.Context, products []core.Product) ([][]float64, error) {
	n := len(products)
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(8)
	for i := 0; i < n; i++ {
		i := i
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for j := i + 1; j < n; j++ {
				sim := e.ProductSimilarity(products[i], products[j])
				matrix[i][j] = sim
				matrix[j][i] = sim
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return matrix, nil
}

// CosineSimilarity 计算两个向量的余弦相似度。
// 任一向量为零向量时定义为 0（不会除零）。
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// jaccard 计算两个标签集合的 Jaccard 重叠率 |A∩B| / |A∪B|。
func jaccard(a, b []string) float64 {
	setA := make(map[string]struct{}, len(a))
	for _, t := range a {
		setA[t] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, t := range b {
		setB[t] = struct{}{}
	}

	var intersection int
	union := len(setA)
	for t := range setB {
		if _, ok := setA[t]; ok {
			intersection++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
