package pipeline

import (
	"context"
	"fmt"

	"github.com/shopstream/shoprec/core"
)

// Pipeline 把推荐逻辑拆成可组合的 Node 链，顺序执行。
// 任一 Node 出错即中断，错误带上节点名后上抛；节点之间响应 ctx 取消。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", node.Name(), err)
		}
		cur = next
	}
	return cur, nil
}
