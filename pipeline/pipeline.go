package pipeline

import (
	"context"

	"github.com/rushteam/commercekit/core"
)

// Pipeline 把打分逻辑拆成可组合的 Node 链（Filter → Score → Truncate）。
// 推荐引擎的 warm 路径就是一条这样的链。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	sctx *core.ScoreContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, sctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
