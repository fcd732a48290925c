// Package feature 是特征编解码层：把商品的异构属性确定性地映射为
// 定长数值向量，供相似度计算与定价模型使用。
//
// 契约（训练与推理必须一致，否则已训练产物失效）：
//   - 向量维度与字段顺序固定，见 PriceVector / SimilarityVector
//   - 归一化除数固定，见下方常量
//   - 类别编码每个消费方只用一种确定性策略，跨进程/跨版本稳定
package feature

import (
	"hash/fnv"
	"math"
	"strings"
	"time"

	"github.com/rushteam/commercekit/core"
)

// 归一化除数。除数是训练/推理契约的一部分，必须与已训练模型的预期一致。
const (
	PriceDivisor       = 10000.0 // 价格 ÷ 10000
	StockDivisor       = 100.0   // 库存 ÷ 100
	DemandDivisor      = 100.0   // 需求 ÷ 100
	CompetitionDivisor = 10.0    // 竞争 ÷ 10
	RatingDivisor      = 5.0     // 评分 ÷ 5
	ReviewCountDivisor = 100.0   // 评论数 ÷ 100（上限 1）
)

// 固定维度。维度或字段顺序变更必须递增 core.SchemaVersion。
const (
	PriceVectorDim      = 7
	SimilarityVectorDim = 4
)

// CategoryBuckets 是哈希编码的桶数，哈希值被压缩到 [0, CategoryBuckets)。
const CategoryBuckets = 100

// categoryCodes 是固定的类别查找表（五个命名类别 → 1-5，未知为 0）。
// 表是版本化契约的一部分：新增类别要追加编号，不能改动已有编号。
var categoryCodes = map[string]float64{
	"electronics": 1,
	"wearables":   2,
	"accessories": 3,
	"power":       4,
	"peripherals": 5,
}

// CategoryCode 按查找表编码类别（大小写不敏感），未知类别为 0。
// 供命名特征（ProductFeatures）消费方使用。
func CategoryCode(category string) float64 {
	return categoryCodes[strings.ToLower(category)]
}

// HashCategoryCode 把类别字符串稳定哈希到 [0, CategoryBuckets)。
//
// 哈希函数固定为 FNV-1a 32 位：跨进程、跨 Go 版本稳定，这是它能作为
// 训练/推理契约的前提。不要换成语言内建的字符串哈希（不保证稳定）。
// 供定价向量与相似度向量两个消费方使用。
func HashCategoryCode(category string) float64 {
	h := fnv.New32a()
	h.Write([]byte(category))
	return float64(h.Sum32() % CategoryBuckets)
}

// PriceVector 构建定价模型的 7 维特征向量，字段顺序固定：
//
//	[0] 基础价格 ÷ 10000
//	[1] 库存 ÷ 100
//	[2] 需求 ÷ 100
//	[3] 类别哈希编码 ÷ 100
//	[4] 竞争 ÷ 10
//	[5] 星期 (0=周一) ÷ 7
//	[6] 月份 ÷ 12
//
// 后两维来自调用方注入的 now（见 core.Clock），不在这里读墙钟。
func PriceVector(basePrice float64, category string, stock, demand, competition float64, now time.Time) []float64 {
	// Go 的 Weekday 以周日为 0；这里统一为周一为 0
	weekday := (int(now.Weekday()) + 6) % 7
	return []float64{
		basePrice / PriceDivisor,
		stock / StockDivisor,
		demand / DemandDivisor,
		HashCategoryCode(category) / float64(CategoryBuckets),
		competition / CompetitionDivisor,
		float64(weekday) / 7,
		float64(now.Month()) / 12,
	}
}

// SimilarityVector 构建内容相似度的 4 维特征向量，字段顺序固定：
//
//	[0] 类别哈希编码（原始桶值，0-99）
//	[1] 基础价格 ÷ 10000
//	[2] 标签数量
//	[3] 库存 ÷ 100
//
// 库存缺失时默认 0（相似度消费方的约定）。
func SimilarityVector(p core.Product) []float64 {
	return []float64{
		HashCategoryCode(p.Category),
		p.BasePrice / PriceDivisor,
		float64(len(p.Tags)),
		p.Stock / StockDivisor,
	}
}

// ProductFeatures 提取商品的命名特征字典（类别走查找表编码）。
// 用于离线分析/特征观察，不进入定长向量契约。
func ProductFeatures(p core.Product) map[string]float64 {
	hasImage := 0.0
	if p.HasImage {
		hasImage = 1
	}
	return map[string]float64{
		"price":        p.BasePrice / PriceDivisor,
		"stock":        p.Stock / StockDivisor,
		"category":     CategoryCode(p.Category),
		"tags_count":   float64(len(p.Tags)),
		"has_image":    hasImage,
		"rating":       p.RatingAvg / RatingDivisor,
		"review_count": math.Min(float64(p.RatingCount)/ReviewCountDivisor, 1),
	}
}
