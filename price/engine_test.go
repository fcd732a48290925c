package price

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/commercekit/core"
	"github.com/rushteam/commercekit/store"
)

func fixedClock() core.Clock {
	return func() time.Time {
		return time.Date(2024, time.June, 3, 12, 0, 0, 0, time.UTC)
	}
}

func newTestEngine(t *testing.T, s core.ArtifactStore, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{WithClock(fixedClock())}, opts...)
	return NewEngine(context.Background(), s, opts...)
}

func trainSamples(n int) []TrainSample {
	samples := make([]TrainSample, 0, n)
	for i := 0; i < n; i++ {
		base := 100.0 + float64(i)*40
		samples = append(samples, TrainSample{
			BasePrice: base,
			Features: Features{
				Category:    "electronics",
				Stock:       20 + i*5,
				Demand:      30 + i*4,
				Competition: 1 + i%9,
			},
			Target: base * 1.1,
		})
	}
	return samples
}

func TestPredict_RuleBasedUntrained(t *testing.T) {
	e := newTestEngine(t, store.NewMemoryStore())

	pred := e.Predict(Request{
		ProductID: "p1",
		BasePrice: 100,
		Features:  Features{Category: "Unknown", Stock: 5, Demand: 50, Competition: 5},
	})

	assert.Equal(t, StrategyRule, pred.Strategy)
	assert.InDelta(t, 110.00, pred.PredictedPrice, 1e-9)
	assert.InDelta(t, -10.0, pred.DiscountPercentage, 1e-9)
	assert.InDelta(t, 0.65, pred.Confidence, 1e-9)
	assert.False(t, pred.Clamped)
	assert.Equal(t, "model not trained", pred.FallbackReason)
}

func TestPredict_ClampCeiling(t *testing.T) {
	e := newTestEngine(t, store.NewMemoryStore())

	// 1.10 × 1.05 × 1.03 × 1.02 ≈ 1.2134，超出上界 1.2
	pred := e.Predict(Request{
		ProductID: "p1",
		BasePrice: 100,
		Features:  Features{Category: "electronics", Stock: 5, Demand: 85, Competition: 2},
	})

	assert.True(t, pred.Clamped)
	assert.InDelta(t, 120.00, pred.PredictedPrice, 1e-9)
	// 折扣按夹紧后的价格算
	assert.InDelta(t, -20.0, pred.DiscountPercentage, 1e-9)
}

func TestPredict_ClampFloor(t *testing.T) {
	e := newTestEngine(t, store.NewMemoryStore(), WithCustomRules([]CustomRule{
		{Name: "flash_sale", When: "", Factor: 0.1}, // 空表达式恒真
	}))

	pred := e.Predict(Request{ProductID: "p1", BasePrice: 200, Features: Features{Category: "Unknown", Stock: 50, Demand: 50, Competition: 5}})

	assert.True(t, pred.Clamped)
	assert.InDelta(t, 100.00, pred.PredictedPrice, 1e-9)
	assert.InDelta(t, 50.0, pred.DiscountPercentage, 1e-9)
}

func TestTrain_TooFewSamples(t *testing.T) {
	e := newTestEngine(t, store.NewMemoryStore())

	_, err := e.Train(context.Background(), trainSamples(9))
	assert.True(t, core.IsInsufficientData(err))
	assert.False(t, e.Trained())
}

func TestTrain_ThenPredictUsesModel(t *testing.T) {
	e := newTestEngine(t, store.NewMemoryStore())

	stats, err := e.Train(context.Background(), trainSamples(12))
	require.NoError(t, err)
	assert.Equal(t, 12, stats.NumSamples)
	assert.Equal(t, "ridge_regression", stats.ModelType)
	assert.Greater(t, stats.TrainScore, 0.9, "linear target must be nearly perfectly fit")
	require.True(t, e.Trained())

	pred := e.Predict(Request{
		ProductID: "p1",
		BasePrice: 300,
		Features:  Features{Category: "electronics", Stock: 40, Demand: 50, Competition: 4},
	})
	assert.Equal(t, StrategyModel, pred.Strategy)
	assert.InDelta(t, 0.85, pred.Confidence, 1e-9)
	assert.Empty(t, pred.FallbackReason)
	// 目标是 base × 1.1，预测也应落在这个量级并受 clamp 保护
	assert.GreaterOrEqual(t, pred.PredictedPrice, 150.0)
	assert.LessOrEqual(t, pred.PredictedPrice, 360.0)
}

func TestTrain_PersistAndReload(t *testing.T) {
	shared := store.NewMemoryStore()
	e := newTestEngine(t, shared)

	_, err := e.Train(context.Background(), trainSamples(12))
	require.NoError(t, err)

	reloaded := newTestEngine(t, shared)
	require.True(t, reloaded.Trained())

	pred := reloaded.Predict(Request{ProductID: "p1", BasePrice: 300, Features: Features{Category: "electronics", Stock: 40, Demand: 50, Competition: 4}})
	assert.Equal(t, StrategyModel, pred.Strategy)
}

func TestPredict_FallbackOnBrokenScaler(t *testing.T) {
	shared := store.NewMemoryStore()
	e := newTestEngine(t, shared)
	_, err := e.Train(context.Background(), trainSamples(12))
	require.NoError(t, err)

	// 人为写入维度不符的 scaler，重载后模型路径在 Transform 处失败
	ctx := context.Background()
	require.NoError(t, shared.Save(ctx, core.ArtifactPriceScaler, []byte(`{"schema_version":"1","mean":[0,0],"std":[1,1]}`)))

	broken := newTestEngine(t, shared)
	require.True(t, broken.Trained())

	pred := broken.Predict(Request{ProductID: "p1", BasePrice: 100, Features: Features{Category: "Unknown", Stock: 50, Demand: 50, Competition: 5}})
	assert.Equal(t, StrategyRule, pred.Strategy)
	assert.NotEmpty(t, pred.FallbackReason)
	assert.InDelta(t, 0.65, pred.Confidence, 1e-9)
}

func TestFeaturesFromMap(t *testing.T) {
	f := FeaturesFromMap(map[string]any{"category": "wearables", "stock": 7, "demand": 90.0})
	assert.Equal(t, "wearables", f.Category)
	assert.Equal(t, 7, f.Stock)
	assert.Equal(t, 90, f.Demand)
	assert.Equal(t, 5, f.Competition, "missing fields keep defaults")

	f = FeaturesFromMap(nil)
	assert.Equal(t, Features{Category: "Unknown", Stock: 50, Demand: 50, Competition: 5}, f)
}
