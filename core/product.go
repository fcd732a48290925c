package core

import "github.com/rushteam/commercekit/pkg/conv"

// Product 是商品属性的不可变快照。
//
// 约定：
//   - 每次请求由调用方（上游 HTTP 层）提供，Engine 只读不写
//   - 缺失字段取默认值：Category 为 "Unknown"，Tags 为空集合
//   - Stock 的默认值取决于消费方：相似度特征取 0，定价特征取 50
type Product struct {
	ID          string
	Category    string
	Tags        []string
	BasePrice   float64 // 基础价格，> 0
	Stock       float64 // 库存量，>= 0
	Demand      float64 // 需求指数 0-100
	Competition float64 // 竞争指数 >= 0
	RatingAvg   float64 // 平均评分 0-5
	RatingCount int     // 评分数量
	HasImage    bool
}

// DefaultCategory 是类别缺失时的默认值。
const DefaultCategory = "Unknown"

// ProductFromMap 从上游传入的结构化记录（map）构建 Product。
// 缺失的可选字段取默认值，不报错；价格兼容 basePrice / price 两种字段名。
func ProductFromMap(m map[string]any) Product {
	p := Product{Category: DefaultCategory}
	if m == nil {
		return p
	}
	if id, ok := conv.ToString(m["_id"]); ok {
		p.ID = id
	} else if id, ok := conv.ToString(m["id"]); ok {
		p.ID = id
	}
	if c, ok := conv.ToString(m["category"]); ok && c != "" {
		p.Category = c
	}
	p.Tags = conv.SliceAnyToString(m["tags"])
	if v, ok := conv.ToFloat64(m["basePrice"]); ok {
		p.BasePrice = v
	} else if v, ok := conv.ToFloat64(m["price"]); ok {
		p.BasePrice = v
	}
	if v, ok := conv.ToFloat64(m["stock"]); ok {
		p.Stock = v
	}
	if v, ok := conv.ToFloat64(m["demand"]); ok {
		p.Demand = v
	}
	if v, ok := conv.ToFloat64(m["competition"]); ok {
		p.Competition = v
	}
	if v, ok := conv.ToFloat64(m["ratingAverage"]); ok {
		p.RatingAvg = v
	}
	if v, ok := conv.ToInt(m["ratingCount"]); ok {
		p.RatingCount = v
	}
	if imgs := conv.SliceAnyToString(m["images"]); len(imgs) > 0 {
		p.HasImage = true
	}
	return p
}

// Interaction 是一条 (用户, 商品, 评分) 交互记录，评分范围 1-5。
// 训练时同一 (用户, 商品) 的多条记录按"保留最后一条"去重。
type Interaction struct {
	UserID    string
	ProductID string
	Rating    float64
}

// InteractionFromMap 从结构化记录构建 Interaction。
func InteractionFromMap(m map[string]any) Interaction {
	var it Interaction
	if m == nil {
		return it
	}
	it.UserID, _ = conv.ToString(m["userId"])
	it.ProductID, _ = conv.ToString(m["productId"])
	it.Rating, _ = conv.ToFloat64(m["rating"])
	return it
}

// Review 是一条商品评论：自由文本 + 评分（1-5，缺失时默认 3）。
type Review struct {
	Text   string
	Rating float64
}

// DefaultReviewRating 是评分缺失时的默认值（中性）。
const DefaultReviewRating = 3

// ReviewFromMap 从结构化记录构建 Review，评分缺失时取默认值 3。
func ReviewFromMap(m map[string]any) Review {
	r := Review{Rating: DefaultReviewRating}
	if m == nil {
		return r
	}
	r.Text, _ = conv.ToString(m["text"])
	if v, ok := conv.ToFloat64(m["rating"]); ok {
		r.Rating = v
	}
	return r
}
