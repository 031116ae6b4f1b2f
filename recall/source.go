package recall

import (
	"context"

	"github.com/shopstream/shoprec/core"
)

// Source 表示一个可复用的召回源（协同过滤/内容/热门/...）。
// 你可以把它理解为"可并发 fan-out 的策略单元"：每个 Source 独立查询
// 数据协作方，产出只在本次调用内可比的相对分数。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}
