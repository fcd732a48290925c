// Package price 是动态定价引擎：优先走岭回归模型，模型不可用时
// 回退到规则定价，两条路径的结果都被夹在基准价的 [0.5, 1.2] 倍之间。
// Predict 从不返回错误，定价永远有结果。
package price

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rushteam/commercekit/core"
	"github.com/rushteam/commercekit/feature"
	"github.com/rushteam/commercekit/pkg/conv"
	"github.com/rushteam/commercekit/pkg/dsl"
)

const (
	// 预测价相对基准价的上下界
	clampFloor = 0.5
	clampCeil  = 1.2

	// 两条路径的置信度
	confidenceModel = 0.85
	confidenceRule  = 0.65

	// 训练的最小样本数
	minTrainSamples = 10

	// Prediction.Strategy 取值
	StrategyModel = "ml_model"
	StrategyRule  = "rule_based"
)

// Features 是定价用到的商品特征。
type Features struct {
	Category    string
	Stock       int
	Demand      int
	Competition int
}

// FeaturesFromMap 从特征 map 构造 Features，缺省值与上游服务约定一致。
func FeaturesFromMap(m map[string]any) Features {
	f := Features{Category: "Unknown", Stock: 50, Demand: 50, Competition: 5}
	if s, ok := conv.ToString(m["category"]); ok {
		f.Category = s
	}
	if n, ok := conv.ToInt(m["stock"]); ok {
		f.Stock = n
	}
	if n, ok := conv.ToInt(m["demand"]); ok {
		f.Demand = n
	}
	if n, ok := conv.ToInt(m["competition"]); ok {
		f.Competition = n
	}
	return f
}

// Request 是一次定价请求。
type Request struct {
	ProductID  string
	BasePrice  float64
	Features   Features
	Historical []float64 // 历史价格，暂未参与计算，保留字段
}

// Prediction 是定价结果。
type Prediction struct {
	ProductID          string  `json:"product_id"`
	BasePrice          float64 `json:"base_price"`
	PredictedPrice     float64 `json:"predicted_price"`
	DiscountPercentage float64 `json:"discount_percentage"`
	Confidence         float64 `json:"confidence"`
	Strategy           string  `json:"strategy"`
	Clamped            bool    `json:"clamped"`
	FallbackReason     string  `json:"fallback_reason,omitempty"`
}

// TrainSample 是一条训练样本。
type TrainSample struct {
	BasePrice float64
	Features  Features
	Target    float64 // 实际成交价
}

// TrainStats 是一次训练的统计结果。
type TrainStats struct {
	NumSamples int     `json:"num_samples"`
	TrainScore float64 `json:"train_score"` // 训练集 R²
	ModelType  string  `json:"model_type"`
}

// Engine 是定价引擎。
type Engine struct {
	mu     sync.RWMutex
	model  *ridgeModel
	scaler *feature.StandardScaler

	store  core.ArtifactStore
	custom []CustomRule
	eval   *dsl.Evaluator
	clock  core.Clock
	logger zerolog.Logger
}

type Option func(*Engine)

// WithClock 注入时钟，价格向量里的星期/月份特征由它决定。
func WithClock(c core.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithLogger 注入结构化日志。
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithCustomRules 注入配置驱动的自定义定价规则。
func WithCustomRules(rules []CustomRule) Option {
	return func(e *Engine) { e.custom = rules }
}

// NewEngine 创建定价引擎，并尝试从 store 加载已有的模型与 scaler 产物。
// 任一产物缺失/损坏即"未训练"，定价自动走规则路径，不是错误。
func NewEngine(ctx context.Context, store core.ArtifactStore, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		eval:   dsl.NewEvaluator(),
		clock:  core.SystemClock,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if store != nil {
		e.loadArtifacts(ctx)
	}
	return e
}

func (e *Engine) loadArtifacts(ctx context.Context) {
	modelBlob, err := e.store.Load(ctx, core.ArtifactPriceModel)
	if err != nil {
		if !core.IsArtifactNotFound(err) {
			e.logger.Warn().Err(err).Msg("loading price model failed, starting untrained")
		}
		return
	}
	scalerBlob, err := e.store.Load(ctx, core.ArtifactPriceScaler)
	if err != nil {
		e.logger.Warn().Err(err).Msg("price model present but scaler missing, starting untrained")
		return
	}

	model, err := unmarshalModel(modelBlob)
	if err != nil {
		e.logger.Warn().Err(err).Msg("stored price model unusable, starting untrained")
		return
	}
	scaler, err := feature.UnmarshalScaler(scalerBlob)
	if err != nil {
		e.logger.Warn().Err(err).Msg("stored price scaler unusable, starting untrained")
		return
	}

	e.model = model
	e.scaler = scaler
	e.logger.Info().Int("weights", len(model.Weights)).Msg("price model loaded")
}

// Trained 返回引擎是否持有可用的模型产物。
func (e *Engine) Trained() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.model != nil && e.scaler != nil
}

// Predict 为商品定价。已训练时走模型路径，模型路径上任何一步失败
// （向量维度不符、scaler 异常等）都回退到规则路径并带上 FallbackReason。
// 无论哪条路径，结果都被夹在 [0.5, 1.2] × 基准价内，折扣按夹紧后的价格计算。
func (e *Engine) Predict(req Request) Prediction {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var (
		raw      float64
		strategy string
		conf     float64
		reason   string
	)

	if e.model != nil && e.scaler != nil {
		price, err := e.predictModel(req)
		if err != nil {
			reason = err.Error()
			e.logger.Warn().Err(err).Str("product", req.ProductID).Msg("model path failed, falling back to rules")
		} else {
			raw, strategy, conf = price, StrategyModel, confidenceModel
		}
	} else {
		reason = "model not trained"
	}

	if strategy == "" {
		factor, applied, failed := applyRules(req.Features, e.custom, e.eval)
		for _, name := range failed {
			e.logger.Warn().Str("rule", name).Str("product", req.ProductID).Msg("custom rule evaluation failed, skipped")
		}
		raw = req.BasePrice * factor
		strategy, conf = StrategyRule, confidenceRule
		e.logger.Debug().Strs("rules", applied).Float64("factor", factor).Msg("rule based pricing")
	}

	clamped := false
	lo, hi := req.BasePrice*clampFloor, req.BasePrice*clampCeil
	if raw < lo {
		raw, clamped = lo, true
	} else if raw > hi {
		raw, clamped = hi, true
	}

	predicted := round2(raw)
	discount := 0.0
	if req.BasePrice > 0 {
		discount = round2((req.BasePrice - predicted) / req.BasePrice * 100)
	}

	return Prediction{
		ProductID:          req.ProductID,
		BasePrice:          req.BasePrice,
		PredictedPrice:     predicted,
		DiscountPercentage: discount,
		Confidence:         conf,
		Strategy:           strategy,
		Clamped:            clamped,
		FallbackReason:     reason,
	}
}

// predictModel 走模型路径，调用方需持有读锁。
func (e *Engine) predictModel(req Request) (float64, error) {
	vec := priceVector(req.BasePrice, req.Features, e.clock())
	scaled, err := e.scaler.Transform(vec)
	if err != nil {
		return 0, err
	}
	return e.model.predict(scaled)
}

// Train 用样本训练（重建）岭回归模型并持久化 scaler 与模型两份产物。
//
// 样本数不足返回 INSUFFICIENT_DATA 错误；任何失败都保持旧产物不动。
func (e *Engine) Train(ctx context.Context, samples []TrainSample) (*TrainStats, error) {
	if len(samples) < minTrainSamples {
		return nil, core.NewDomainError(core.ModulePrice, core.ErrorCodeInsufficientData, "price: insufficient training data (min 10 samples required)")
	}

	now := e.clock()
	vectors := make([][]float64, len(samples))
	targets := make([]float64, len(samples))
	for i, s := range samples {
		vectors[i] = priceVector(s.BasePrice, s.Features, now)
		targets[i] = s.Target
	}

	scaler := &feature.StandardScaler{}
	if err := scaler.Fit(vectors); err != nil {
		return nil, err
	}
	scaled, err := scaler.TransformAll(vectors)
	if err != nil {
		return nil, err
	}
	model, err := fitRidge(scaled, targets)
	if err != nil {
		return nil, err
	}
	score := model.rsquared(scaled, targets)

	scalerBlob, err := scaler.Marshal()
	if err != nil {
		return nil, err
	}
	modelBlob, err := model.marshal()
	if err != nil {
		return nil, err
	}
	if err := e.store.Save(ctx, core.ArtifactPriceScaler, scalerBlob); err != nil {
		return nil, err
	}
	if err := e.store.Save(ctx, core.ArtifactPriceModel, modelBlob); err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.model = model
	e.scaler = scaler
	e.mu.Unlock()

	stats := &TrainStats{
		NumSamples: len(samples),
		TrainScore: round4(score),
		ModelType:  "ridge_regression",
	}
	e.logger.Info().
		Int("samples", stats.NumSamples).
		Float64("r2", stats.TrainScore).
		Msg("price model trained")
	return stats, nil
}

func priceVector(basePrice float64, f Features, now time.Time) []float64 {
	return feature.PriceVector(basePrice, f.Category, float64(f.Stock), float64(f.Demand), float64(f.Competition), now)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
