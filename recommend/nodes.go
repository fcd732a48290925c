package recommend

import (
	"context"
	"math/rand"
	"sort"
	"sync"

	"github.com/rushteam/commercekit/core"
	"github.com/rushteam/commercekit/pipeline"
	"github.com/rushteam/commercekit/pkg/utils"
)

// SeenFilter 是过滤节点：剔除用户历史中已出现过的商品。
// warm 路径的第一站，保证推荐结果不含用户已交互过的商品。
type SeenFilter struct{}

func (n *SeenFilter) Name() string        { return "filter.seen" }
func (n *SeenFilter) Kind() pipeline.Kind { return pipeline.KindFilter }

func (n *SeenFilter) Process(
	_ context.Context,
	sctx *core.ScoreContext,
	items []*core.Item,
) ([]*core.Item, error) {
	seen := sctx.SeenProducts()
	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.ID]; ok {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

// HeuristicScorer 是打分节点：
//
//	score = Σ (rating × 0.2 | 历史交互 rating >= 4) + jitter
//
// 基础分对所有候选相同（反映的是用户的整体活跃/喜好强度），
// jitter 在 [0, 0.5) 内对每个候选独立取随机数，用于多样性。
// 随机源由引擎注入，测试时可用固定种子复现。
type HeuristicScorer struct {
	rng *rand.Rand
	mu  *sync.Mutex // rand.Rand 非并发安全，与引擎共享同一把锁
}

func (n *HeuristicScorer) Name() string        { return "score.heuristic" }
func (n *HeuristicScorer) Kind() pipeline.Kind { return pipeline.KindScore }

func (n *HeuristicScorer) Process(
	_ context.Context,
	sctx *core.ScoreContext,
	items []*core.Item,
) ([]*core.Item, error) {
	var base float64
	for _, h := range sctx.History {
		if h.Rating >= 4 {
			base += h.Rating * 0.2
		}
	}

	for _, it := range items {
		n.mu.Lock()
		jitter := n.rng.Float64() * 0.5
		n.mu.Unlock()

		it.Score = base + jitter
		it.PutLabel("score_source", utils.Label{Value: "history_heuristic", Source: "score"})
	}
	return items, nil
}

// TopN 是截断节点：按分数降序稳定排序后截取前 N 个。
// N <= 0 时不截断。
type TopN struct {
	N int
}

func (n *TopN) Name() string        { return "truncate.topn" }
func (n *TopN) Kind() pipeline.Kind { return pipeline.KindTruncate }

func (n *TopN) Process(
	_ context.Context,
	_ *core.ScoreContext,
	items []*core.Item,
) ([]*core.Item, error) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
	if n.N > 0 && len(items) > n.N {
		items = items[:n.N]
	}
	return items, nil
}
