package pipeline

import (
	"context"

	"github.com/rushteam/commercekit/core"
)

// Kind 用于标记 Node 类型，方便观测/治理（例如按阶段打点）。
type Kind string

const (
	KindFilter   Kind = "filter"   // 过滤阶段：剔除不符合约束的候选
	KindScore    Kind = "score"    // 打分阶段：对候选打分
	KindTruncate Kind = "truncate" // 截断阶段：排序并截取 TopN
)

// Node 是打分链路的最小可扩展单元。
// 统一采用"输入 items -> 输出 items"的形态，方便过滤截断与打分重排。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		sctx *core.ScoreContext,
		items []*core.Item,
	) ([]*core.Item, error)
}
