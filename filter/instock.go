package filter

import (
	"context"

	"github.com/shopstream/shoprec/core"
	"github.com/shopstream/shoprec/pipeline"
)

// ProductStore 是库存过滤需要的最小数据协作方接口。
type ProductStore interface {
	GetProductsByIDs(ctx context.Context, ids []int64) ([]*core.Product, error)
}

// InStock 移除无库存或已不存在的候选商品。
//
// 内容与热门两路只产出在售商品，但协同过滤对邻居评过的任意商品计票，
// 可能带入已下架 / 无库存的候选。融合后在这里统一收口，最终结果
// 必须全部在售。
type InStock struct {
	Store ProductStore
}

func (n *InStock) Name() string        { return "filter.instock" }
func (n *InStock) Kind() pipeline.Kind { return pipeline.KindFilter }

func (n *InStock) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	products, err := n.Store.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	sellable := make(map[int64]bool, len(products))
	for _, p := range products {
		sellable[p.ID] = p.InStock()
	}

	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if sellable[it.ID] {
			out = append(out, it)
		}
	}
	return out, nil
}
