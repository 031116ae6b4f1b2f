package recall

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shopstream/shoprec/core"
	"github.com/shopstream/shoprec/pipeline"
)

// Weighted 给召回源绑定一个融合权重。
type Weighted struct {
	Source Source
	Weight float64
}

// Fanout 是一个 Recall Node：并发执行多个召回源，按权重融合分数。
//
// 融合规则：merged[id] = Σ(weight × source_score)，同一商品出现在多路时
// 分数累加，标签按默认 Merge 规则合并。各路之间没有顺序依赖。
//
// 任一召回源的存储 I/O 错误会中断整个 fan-out 并原样上抛——
// 打分正确性问题都在源内部就地消化，能走到这里的错误只剩 I/O。
type Fanout struct {
	Sources []Weighted

	// Timeout 每个召回源的超时时间，0 表示不限制
	Timeout time.Duration
}

func (n *Fanout) Name() string        { return "recall.fanout" }
func (n *Fanout) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Fanout) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	if len(n.Sources) == 0 {
		return nil, nil
	}

	var (
		mu     sync.Mutex
		merged = make(map[int64]*core.Item)
	)
	eg, egCtx := errgroup.WithContext(ctx)

	for _, ws := range n.Sources {
		ws := ws
		if ws.Source == nil || ws.Weight == 0 {
			continue
		}

		eg.Go(func() error {
			recallCtx := egCtx
			if n.Timeout > 0 {
				var cancel context.CancelFunc
				recallCtx, cancel = context.WithTimeout(egCtx, n.Timeout)
				defer cancel()
			}

			items, err := ws.Source.Recall(recallCtx, rctx)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			for _, it := range items {
				if it == nil {
					continue
				}
				acc, ok := merged[it.ID]
				if !ok {
					acc = core.NewItem(it.ID)
					merged[it.ID] = acc
				}
				acc.Score += ws.Weight * it.Score
				for k, v := range it.Labels {
					acc.PutLabel(k, v)
				}
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out := make([]*core.Item, 0, len(merged))
	for _, it := range merged {
		out = append(out, it)
	}
	sortItems(out)
	return out, nil
}
