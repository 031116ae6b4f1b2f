package recall

import (
	"context"
	"sort"

	"github.com/shopstream/shoprec/core"
	"github.com/shopstream/shoprec/pkg/utils"
)

// PopularityStore 是热门召回的存储接口，core.CatalogStore 天然满足。
type PopularityStore interface {
	// GetInStockProducts 获取全部有库存的商品
	GetInStockProducts(ctx context.Context) ([]*core.Product, error)
}

// Popularity 是热门兜底召回源：在售商品按（均值评分降序，评分条数降序，
// 商品 ID 升序）排列取 TopN。排序规则固定，与数据插入顺序无关。
//
// 两种用法：
//   - 冷启动/未知用户：直接作为最终结果
//   - 融合：作为第三路信号参与加权
//
// 第 i 名（0 起）的分数是线性衰减的 1 - i/M，而不是原始评分：
// 这既保持了排序语义，又正好是融合时热门权重要乘的量。
type Popularity struct {
	Store PopularityStore

	// Limit 返回条数；rctx.Limit > 0 时以请求为准
	Limit int
}

func (r *Popularity) Name() string {
	return "recall.popularity"
}

func (r *Popularity) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Store == nil {
		return nil, nil
	}

	n := 0
	if rctx != nil {
		n = rctx.Limit
	}
	if n <= 0 {
		n = r.Limit
	}
	if n <= 0 {
		n = 10
	}

	products, err := r.Store.GetInStockProducts(ctx)
	if err != nil {
		return nil, err
	}

	sort.Slice(products, func(i, j int) bool {
		if products[i].Rating != products[j].Rating {
			return products[i].Rating > products[j].Rating
		}
		if products[i].NumRatings != products[j].NumRatings {
			return products[i].NumRatings > products[j].NumRatings
		}
		return products[i].ID < products[j].ID
	})
	if len(products) > n {
		products = products[:n]
	}

	out := make([]*core.Item, 0, len(products))
	for i, p := range products {
		it := core.NewItem(p.ID)
		it.Score = 1 - float64(i)/float64(len(products))
		it.PutLabel("recall_source", utils.Label{Value: "popularity", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
