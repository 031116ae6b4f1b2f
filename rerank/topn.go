package rerank

import (
	"context"
	"sort"

	"github.com/shopstream/shoprec/core"
	"github.com/shopstream/shoprec/pipeline"
)

// TopN 是最终截断节点：按融合分降序排列并截取前 N 个。
// 同分时按商品 ID 升序——融合分相同的两件商品谁先谁后原本是未定义的，
// 这里固定一条确定性规则，结果与 map 遍历顺序无关。
//
// 通常作为 Pipeline 的最后一个节点使用：
//
//	pipeline := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        &recall.Fanout{...},
//	        &rerank.RatedDemotion{...},
//	        &rerank.TopN{N: 10},
//	    },
//	}
type TopN struct {
	// N 要保留的数量；N <= 0 时只排序不截断
	N int
}

func (n *TopN) Name() string        { return "rerank.topn" }
func (n *TopN) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *TopN) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].ID < items[j].ID
	})

	if n.N > 0 && len(items) > n.N {
		items = items[:n.N]
	}
	return items, nil
}
