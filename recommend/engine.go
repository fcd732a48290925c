// Package recommend 是协同过滤推荐引擎。
//
// 训练：从交互记录构建用户 × 商品评分矩阵并持久化（见 InteractionMatrix）。
// 推理：
//   - 冷启动（无历史）：从候选中随机抽样。刻意保持朴素的占位策略，
//     等真实的热度信号接入后替换
//   - warm 路径：SeenFilter → HeuristicScorer → TopN 节点链
//   - 内容 fallback：委托 similarity 引擎的向量余弦路径
//
// Train 是写操作，替换内存中的矩阵并持久化；与并发的推理调用之间
// 用读写锁串行化。
package recommend

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rushteam/commercekit/core"
	"github.com/rushteam/commercekit/pipeline"
	"github.com/rushteam/commercekit/similarity"
)

// DefaultLimit 是未指定 limit 时的推荐数量。
const DefaultLimit = 10

// Engine 是推荐引擎。一个实例独占一份训练产物（矩阵），
// 多租户场景可以为每个租户建一个实例、各挂各的 ArtifactStore。
type Engine struct {
	mu     sync.RWMutex
	matrix *InteractionMatrix

	store   core.ArtifactStore
	content *similarity.Engine

	randMu sync.Mutex
	rng    *rand.Rand

	logger zerolog.Logger
}

type Option func(*Engine)

// WithRand 注入随机源（冷启动抽样与 warm 路径 jitter 共用）。
// 测试用固定种子即可复现结果。
func WithRand(src rand.Source) Option {
	return func(e *Engine) { e.rng = rand.New(src) }
}

// WithLogger 注入结构化日志。
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithContentEngine 注入内容相似度引擎（fallback 路径）。
func WithContentEngine(s *similarity.Engine) Option {
	return func(e *Engine) { e.content = s }
}

// NewEngine 创建推荐引擎，并尝试从 store 加载已有的矩阵产物。
// 产物不存在即"未训练"，不是错误；产物损坏/版本不符时记日志并按未训练处理。
func NewEngine(ctx context.Context, store core.ArtifactStore, opts ...Option) *Engine {
	e := &Engine{
		store:   store,
		content: similarity.New(),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if store != nil {
		blob, err := store.Load(ctx, core.ArtifactUserItemMatrix)
		switch {
		case err == nil:
			m, err := UnmarshalMatrix(blob)
			if err != nil {
				e.logger.Warn().Err(err).Msg("stored interaction matrix unusable, starting untrained")
			} else {
				e.matrix = m
				e.logger.Info().
					Int("users", m.NumUsers()).
					Int("products", m.NumProducts()).
					Msg("interaction matrix loaded")
			}
		case core.IsArtifactNotFound(err):
			// 冷启动：未训练状态
		default:
			e.logger.Warn().Err(err).Msg("loading interaction matrix failed, starting untrained")
		}
	}
	return e
}

// Trained 返回引擎是否持有训练产物。
func (e *Engine) Trained() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.matrix != nil
}

// Request 是一次推荐请求。
type Request struct {
	UserID       string
	CandidateIDs []string           // 候选商品 ID 全集
	History      []core.Interaction // 用户历史交互；为空即冷启动
	Limit        int                // <= 0 时取 DefaultLimit
}

// Recommend 为用户生成推荐列表。
//
// 冷启动返回恰好 min(limit, |候选|) 个互不相同的候选；
// warm 路径排除历史商品后按启发式分数取 TopN。
// jitter 使相同输入的多次调用结果不同（刻意的多样性设计），
// 需要确定性时用 WithRand 注入固定种子。
func (e *Engine) Recommend(ctx context.Context, req Request) ([]string, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(req.CandidateIDs) == 0 {
		return []string{}, nil
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	if len(req.History) == 0 {
		out := e.sample(req.CandidateIDs, limit)
		e.logger.Debug().Str("user", req.UserID).Int("returned", len(out)).Msg("cold start sample")
		return out, nil
	}

	sctx := &core.ScoreContext{UserID: req.UserID, History: req.History}
	items := make([]*core.Item, 0, len(req.CandidateIDs))
	for _, id := range req.CandidateIDs {
		items = append(items, core.NewItem(id))
	}

	chain := &pipeline.Pipeline{Nodes: []pipeline.Node{
		&SeenFilter{},
		&HeuristicScorer{rng: e.rng, mu: &e.randMu},
		&TopN{N: limit},
	}}
	scored, err := chain.Run(ctx, sctx, items)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(scored))
	for _, it := range scored {
		out = append(out, it.ID)
	}
	e.logger.Debug().Str("user", req.UserID).Int("returned", len(out)).Msg("warm path scored")
	return out, nil
}

// SimilarProducts 是内容 fallback：对特征向量求余弦相似度
// （similarity 引擎的向量路径），不依赖训练产物。
func (e *Engine) SimilarProducts(target core.Product, candidates []core.Product, limit int) []string {
	return e.content.SimilarByVector(target, candidates, limit)
}

// TrainStats 是一次训练的统计结果。
type TrainStats struct {
	NumUsers        int `json:"num_users"`        // 去重后的用户数
	NumProducts     int `json:"num_products"`     // 去重后的商品数
	NumInteractions int `json:"num_interactions"` // 处理的交互总数（去重前）
}

// Train 用交互记录训练（重建）评分矩阵并持久化。
//
// 空输入返回 INSUFFICIENT_DATA 错误，已有产物不受影响；
// 持久化失败同样保持旧产物（内存与存储均不换）。
func (e *Engine) Train(ctx context.Context, interactions []core.Interaction) (*TrainStats, error) {
	if len(interactions) == 0 {
		return nil, core.NewDomainError(core.ModuleRecommend, core.ErrorCodeInsufficientData, "recommend: no training data provided")
	}

	matrix := BuildMatrix(interactions)
	blob, err := matrix.Marshal()
	if err != nil {
		return nil, err
	}
	if err := e.store.Save(ctx, core.ArtifactUserItemMatrix, blob); err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.matrix = matrix
	e.mu.Unlock()

	stats := &TrainStats{
		NumUsers:        matrix.NumUsers(),
		NumProducts:     matrix.NumProducts(),
		NumInteractions: len(interactions),
	}
	e.logger.Info().
		Int("users", stats.NumUsers).
		Int("products", stats.NumProducts).
		Int("interactions", stats.NumInteractions).
		Msg("recommendation model trained")
	return stats, nil
}

// sample 从候选中无放回抽样 min(limit, n) 个，调用方需持有读锁。
func (e *Engine) sample(candidates []string, limit int) []string {
	n := len(candidates)
	if limit > n {
		limit = n
	}

	e.randMu.Lock()
	perm := e.rng.Perm(n)
	e.randMu.Unlock()

	out := make([]string, 0, limit)
	for _, idx := range perm[:limit] {
		out = append(out, candidates[idx])
	}
	return out
}
