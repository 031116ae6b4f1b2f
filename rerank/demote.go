package rerank

import (
	"context"

	"github.com/shopstream/shoprec/core"
	"github.com/shopstream/shoprec/pipeline"
	"github.com/shopstream/shoprec/pkg/utils"
)

// RatingStore 是降权节点的存储接口，core.CatalogStore 天然满足。
type RatingStore interface {
	// GetRatingsByUser 获取某用户的全部评分
	GetRatingsByUser(ctx context.Context, userID int64) ([]core.Rating, error)
}

// RatedDemotion 对用户已经打过高分的商品做融合分降权：乘以 Factor，
// 只降权、不剔除——其他信号足够强时仍可浮上来。降权统一作用在
// 融合后的分数上，不区分候选来自哪一路召回。
type RatedDemotion struct {
	Store RatingStore

	// Threshold "高分"阈值，评分达到该值的商品被降权
	Threshold float64

	// Factor 降权系数
	Factor float64
}

func (n *RatedDemotion) Name() string        { return "rerank.rated_demotion" }
func (n *RatedDemotion) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *RatedDemotion) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Store == nil || rctx == nil || rctx.UserID == 0 || len(items) == 0 {
		return items, nil
	}

	threshold := n.Threshold
	if threshold <= 0 {
		threshold = 4
	}
	factor := n.Factor
	if factor <= 0 {
		factor = 0.3
	}

	ratings, err := n.Store.GetRatingsByUser(ctx, rctx.UserID)
	if err != nil {
		return nil, err
	}

	rated := make(map[int64]struct{})
	for _, r := range ratings {
		if r.Score >= threshold {
			rated[r.ProductID] = struct{}{}
		}
	}
	if len(rated) == 0 {
		return items, nil
	}

	for _, it := range items {
		if it == nil {
			continue
		}
		if _, ok := rated[it.ID]; ok {
			it.Score *= factor
			it.PutLabel("demoted", utils.Label{Value: "rated_high", Source: "rerank"})
		}
	}
	return items, nil
}
