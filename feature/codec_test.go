package feature

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/commercekit/core"
)

func TestHashCategoryCode(t *testing.T) {
	// 跨调用确定性 + 桶范围
	categories := []string{"electronics", "Electronics", "wearables", "", "某个类目"}
	for _, c := range categories {
		first := HashCategoryCode(c)
		assert.Equal(t, first, HashCategoryCode(c), "hash must be deterministic for %q", c)
		assert.GreaterOrEqual(t, first, 0.0)
		assert.Less(t, first, float64(CategoryBuckets))
	}
	// 大小写敏感是刻意的：哈希路径不做归一化
	assert.NotEqual(t, HashCategoryCode("electronics"), HashCategoryCode("Electronics"))
}

func TestCategoryCode(t *testing.T) {
	tests := []struct {
		category string
		want     float64
	}{
		{"electronics", 1},
		{"Electronics", 1}, // 查找表路径大小写不敏感
		{"WEARABLES", 2},
		{"accessories", 3},
		{"power", 4},
		{"peripherals", 5},
		{"unknown-thing", 0},
		{"", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CategoryCode(tt.category), "category %q", tt.category)
	}
}

func TestPriceVector(t *testing.T) {
	// 2024-06-05 是周三：weekday 归一化后为 2（周一为 0）
	now := time.Date(2024, time.June, 5, 12, 0, 0, 0, time.UTC)
	vec := PriceVector(2500, "electronics", 40, 60, 5, now)

	require.Len(t, vec, PriceVectorDim)
	assert.InDelta(t, 0.25, vec[0], 1e-9)
	assert.InDelta(t, 0.40, vec[1], 1e-9)
	assert.InDelta(t, 0.60, vec[2], 1e-9)
	assert.InDelta(t, HashCategoryCode("electronics")/100, vec[3], 1e-9)
	assert.InDelta(t, 0.5, vec[4], 1e-9)
	assert.InDelta(t, 2.0/7, vec[5], 1e-9)
	assert.InDelta(t, 6.0/12, vec[6], 1e-9)
}

func TestPriceVector_WeekdayNormalization(t *testing.T) {
	monday := time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2024, time.June, 9, 0, 0, 0, 0, time.UTC)

	assert.InDelta(t, 0.0, PriceVector(1, "x", 0, 0, 0, monday)[5], 1e-9)
	assert.InDelta(t, 6.0/7, PriceVector(1, "x", 0, 0, 0, sunday)[5], 1e-9)
}

func TestSimilarityVector(t *testing.T) {
	p := core.Product{
		ID:        "p1",
		Category:  "electronics",
		Tags:      []string{"laptop", "portable", "metal"},
		BasePrice: 4999,
		Stock:     50,
	}
	vec := SimilarityVector(p)

	require.Len(t, vec, SimilarityVectorDim)
	assert.Equal(t, HashCategoryCode("electronics"), vec[0]) // 原始桶值，不归一化
	assert.InDelta(t, 0.4999, vec[1], 1e-9)
	assert.Equal(t, 3.0, vec[2])
	assert.InDelta(t, 0.5, vec[3], 1e-9)
}

func TestProductFeatures(t *testing.T) {
	p := core.Product{
		Category:    "wearables",
		BasePrice:   1000,
		Stock:       20,
		Tags:        []string{"watch"},
		HasImage:    true,
		RatingAvg:   4.5,
		RatingCount: 250,
	}
	f := ProductFeatures(p)

	assert.InDelta(t, 0.1, f["price"], 1e-9)
	assert.InDelta(t, 0.2, f["stock"], 1e-9)
	assert.Equal(t, 2.0, f["category"])
	assert.Equal(t, 1.0, f["tags_count"])
	assert.Equal(t, 1.0, f["has_image"])
	assert.InDelta(t, 0.9, f["rating"], 1e-9)
	assert.Equal(t, 1.0, f["review_count"]) // 250/100 截断到 1
}
