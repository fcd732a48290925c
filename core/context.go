package core

// ScoreContext 承载一次打分请求的用户侧信息，贯穿整个打分链路透传。
//
// History 是用户的历史交互（已评分商品），warm 路径据此排除已见商品并
// 计算启发式分数；History 为空即冷启动（见 recommend 包）。
type ScoreContext struct {
	UserID string

	// History 是用户历史交互记录
	History []Interaction

	// Params 请求级上下文参数（limit、scene 等），按需取用
	Params map[string]any
}

// SeenProducts 返回用户历史中出现过的商品 ID 集合。
func (sctx *ScoreContext) SeenProducts() map[string]struct{} {
	seen := make(map[string]struct{}, len(sctx.History))
	for _, it := range sctx.History {
		if it.ProductID != "" {
			seen[it.ProductID] = struct{}{}
		}
	}
	return seen
}
