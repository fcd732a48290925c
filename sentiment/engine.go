// Package sentiment 是基于词表的评论情感引擎（Lexicon Sentiment）。
//
// 核心思想：正/负词集合与评论词集合求交，按词数差打分；
// 词表完全未命中时退化为用评分打分。无模型、无训练产物、完全确定。
package sentiment

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rushteam/commercekit/core"
)

// wordPattern 匹配字母/数字/下划线连续段（词 token）。
var wordPattern = regexp.MustCompile(`\w+`)

// 情感分类阈值：分数 > 0.2 为 positive，< -0.2 为 negative，否则 neutral。
const classifyThreshold = 0.2

// Insight 是一条分析结论。
// Type 取值：positive / warning / info。
type Insight struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Report 是一批评论的情感分析结果。
type Report struct {
	OverallSentiment   string    `json:"overall_sentiment"` // positive / negative / neutral
	SentimentScore     float64   `json:"sentiment_score"`   // 平均分 [-1, 1]，保留 3 位
	PositivePercentage float64   `json:"positive_percentage"`
	NegativePercentage float64   `json:"negative_percentage"`
	NeutralPercentage  float64   `json:"neutral_percentage"`
	TotalReviews       int       `json:"total_reviews"`
	AverageRating      float64   `json:"average_rating"` // 原始评分均值，保留 2 位
	Insights           []Insight `json:"insights"`
	PositiveThemes     []string  `json:"positive_themes"` // 最多 3 个
	NegativeThemes     []string  `json:"negative_themes"`
}

// Engine 是情感分析引擎。无内部状态，可并发使用。
type Engine struct {
	logger zerolog.Logger
}

type Option func(*Engine)

// WithLogger 注入结构化日志。
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

// AnalyzeReviews 分析一批评论，聚合出整体情感、分类占比与结论。
// 空输入返回零值中性报告（显式的终止状态，不是错误）。
func (e *Engine) AnalyzeReviews(reviews []core.Review) *Report {
	if len(reviews) == 0 {
		return &Report{
			OverallSentiment: "neutral",
			Insights:         []Insight{},
			PositiveThemes:   []string{},
			NegativeThemes:   []string{},
		}
	}

	var (
		counts    = make(map[string]int, 3)
		scoreSum  float64
		ratingSum float64
		allWords  []string
	)
	for _, r := range reviews {
		text := strings.ToLower(r.Text)
		label, score := analyzeText(text, r.Rating)
		counts[label]++
		scoreSum += score
		ratingSum += r.Rating
		allWords = append(allWords, wordPattern.FindAllString(text, -1)...)
	}

	total := len(reviews)
	positivePct := float64(counts["positive"]) / float64(total) * 100
	negativePct := float64(counts["negative"]) / float64(total) * 100
	neutralPct := float64(counts["neutral"]) / float64(total) * 100
	avgScore := scoreSum / float64(total)

	report := &Report{
		OverallSentiment:   classify(avgScore),
		SentimentScore:     round(avgScore, 3),
		PositivePercentage: round(positivePct, 1),
		NegativePercentage: round(negativePct, 1),
		NeutralPercentage:  round(neutralPct, 1),
		TotalReviews:       total,
		AverageRating:      round(ratingSum/float64(total), 2),
		Insights:           generateInsights(allWords, positivePct, negativePct, avgScore),
		PositiveThemes:     truncateThemes(extractThemes(reviews, true), 3),
		NegativeThemes:     truncateThemes(extractThemes(reviews, false), 3),
	}

	e.logger.Debug().
		Int("total_reviews", total).
		Str("overall", report.OverallSentiment).
		Float64("score", report.SentimentScore).
		Msg("reviews analyzed")
	return report
}

// analyzeText 对单条评论打分。
// 词表有命中：score = (pos - neg) / max(pos + neg, 1)；
// 完全未命中：退化为评分映射 (rating - 3) / 2（1→-1, 3→0, 5→1）。
func analyzeText(text string, rating float64) (label string, score float64) {
	words := make(map[string]struct{})
	for _, w := range wordPattern.FindAllString(text, -1) {
		words[w] = struct{}{}
	}

	var pos, neg int
	for w := range words {
		if _, ok := positiveWords[w]; ok {
			pos++
		}
		if _, ok := negativeWords[w]; ok {
			neg++
		}
	}

	if pos == 0 && neg == 0 {
		score = (rating - 3) / 2
	} else {
		score = float64(pos-neg) / math.Max(float64(pos+neg), 1)
	}
	return classify(score), score
}

func classify(score float64) string {
	switch {
	case score > classifyThreshold:
		return "positive"
	case score < -classifyThreshold:
		return "negative"
	default:
		return "neutral"
	}
}

// generateInsights 按固定顺序逐条检查结论条件，条件相互独立，可以同时成立。
func generateInsights(words []string, positivePct, negativePct, avgScore float64) []Insight {
	insights := []Insight{}
	freq := make(map[string]int, len(words))
	for _, w := range words {
		freq[w]++
	}

	if avgScore > 0.5 {
		insights = append(insights, Insight{
			Type:    "positive",
			Message: "Customers are highly satisfied with this product",
		})
	}
	if avgScore < -0.3 {
		insights = append(insights, Insight{
			Type:    "warning",
			Message: "Product has received significant negative feedback",
		})
	}
	if freq["quality"] > 2 {
		insights = append(insights, Insight{
			Type:    "info",
			Message: "Quality is frequently mentioned in reviews",
		})
	}
	if freq["price"] > 0 || freq["worth"] > 0 {
		insights = append(insights, Insight{
			Type:    "info",
			Message: "Price/value is a common discussion point",
		})
	}
	if positivePct > 70 {
		insights = append(insights, Insight{
			Type:    "positive",
			Message: fmt.Sprintf("%d%% of reviews are positive - consider highlighting in marketing", int(math.Round(positivePct))),
		})
	}
	if negativePct > 30 {
		insights = append(insights, Insight{
			Type:    "warning",
			Message: fmt.Sprintf("%d%% negative reviews detected - investigate issues", int(math.Round(negativePct))),
		})
	}
	return insights
}

func round(v float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}
