package price

import (
	"strings"

	"github.com/rushteam/commercekit/pkg/dsl"
)

// builtinRule 是内置定价规则：条件命中时向价格乘一个系数。
type builtinRule struct {
	name   string
	factor float64
	when   func(f Features) bool
}

// builtinRules 按声明顺序依次应用，系数连乘。
// 库存、需求、竞争三组各自的高低档互斥，类目两档互斥，
// 所以单次评估最多命中 4 条。
var builtinRules = []builtinRule{
	{"low_stock", 1.10, func(f Features) bool { return f.Stock < 10 }},
	{"high_stock", 0.95, func(f Features) bool { return f.Stock > 100 }},
	{"high_demand", 1.05, func(f Features) bool { return f.Demand > 80 }},
	{"low_demand", 0.90, func(f Features) bool { return f.Demand < 20 }},
	{"high_competition", 0.93, func(f Features) bool { return f.Competition > 10 }},
	{"low_competition", 1.03, func(f Features) bool { return f.Competition < 3 }},
	{"premium_category", 1.02, func(f Features) bool {
		c := strings.ToLower(f.Category)
		return c == "electronics" || c == "wearables"
	}},
	{"commodity_category", 0.98, func(f Features) bool {
		c := strings.ToLower(f.Category)
		return c == "accessories" || c == "cables"
	}},
}

// CustomRule 是配置驱动的自定义定价规则。
// When 是 CEL 表达式，变量 features 暴露商品特征
// （stock、demand、competition、category 等），表达式须返回布尔值。
type CustomRule struct {
	Name   string  `yaml:"name" json:"name"`
	When   string  `yaml:"when" json:"when"`
	Factor float64 `yaml:"factor" json:"factor"`
}

// applyRules 对基准价依次应用内置规则与自定义规则，返回总系数与命中的规则名。
// 自定义规则求值失败时跳过该条并返回错误名单由调用方记日志，不中断定价。
func applyRules(f Features, custom []CustomRule, eval *dsl.Evaluator) (factor float64, applied []string, failed []string) {
	factor = 1.0
	for _, r := range builtinRules {
		if r.when(f) {
			factor *= r.factor
			applied = append(applied, r.name)
		}
	}

	if len(custom) == 0 {
		return factor, applied, nil
	}
	features := map[string]any{
		"category":    strings.ToLower(f.Category),
		"stock":       float64(f.Stock),
		"demand":      float64(f.Demand),
		"competition": float64(f.Competition),
	}
	for _, r := range custom {
		ok, err := eval.Evaluate(r.When, features)
		if err != nil {
			failed = append(failed, r.Name)
			continue
		}
		if ok {
			factor *= r.Factor
			applied = append(applied, r.Name)
		}
	}
	return factor, applied, failed
}
