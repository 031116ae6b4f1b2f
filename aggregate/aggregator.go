package aggregate

import (
	"context"

	"github.com/shopstream/shoprec/core"
)

// Store 是聚合器的存储接口，core.CatalogStore 天然满足。
type Store interface {
	// GetRatingsByProduct 获取某商品的全部评分
	GetRatingsByProduct(ctx context.Context, productID int64) ([]core.Rating, error)

	// SaveProductAggregate 回写商品的评分聚合（均值 + 条数）
	SaveProductAggregate(ctx context.Context, productID int64, rating float64, count int) error
}

// Aggregator 维护商品的派生评分聚合。
//
// 策略是全量重算而不是增量更新：每次从当前完整评分集合重新计算
// 均值与条数，天然幂等、可安全重跑，也不会随覆盖/删除产生漂移。
// 评分归零时聚合重置为 (0.0, 0)。
//
// 必须在评分写入后、调用方收到写入成功之前同步调用：
// 热门兜底与内容召回都依赖新鲜的聚合值。
type Aggregator struct {
	Store Store
}

// OnRatingChanged 重算并回写商品聚合。
func (a *Aggregator) OnRatingChanged(ctx context.Context, productID int64) error {
	ratings, err := a.Store.GetRatingsByProduct(ctx, productID)
	if err != nil {
		return err
	}

	var mean float64
	count := len(ratings)
	if count > 0 {
		var sum float64
		for _, r := range ratings {
			sum += r.Score
		}
		mean = sum / float64(count)
	}

	return a.Store.SaveProductAggregate(ctx, productID, mean, count)
}
