package recall

import (
	"context"

	"github.com/shopstream/shoprec/core"
	"github.com/shopstream/shoprec/pkg/utils"
)

// 内容匹配的特征权重。各项相加后分数落在大致 [0, 1]，
// 不跨用户归一，只在一次调用内可比。
const (
	categoryFreqWeight = 0.4 // 行为类目频次占比
	brandFreqWeight    = 0.3 // 行为品牌频次占比
	prefCategoryBonus  = 0.2 // 显式偏好类目
	prefBrandBonus     = 0.1 // 显式偏好品牌
	ratingBoostWeight  = 0.1 // 商品口碑加成（均值/5）
)

// ContentStore 是内容召回的存储接口，core.CatalogStore 天然满足。
type ContentStore interface {
	// GetUser 获取用户记录；未命中返回 ErrStoreNotFound
	GetUser(ctx context.Context, id int64) (*core.User, error)

	// GetRecentHistory 获取某用户最近的行为记录，最近的在前
	GetRecentHistory(ctx context.Context, userID int64, limit int) ([]core.HistoryEvent, error)

	// GetProductsByIDs 按 ID 批量获取商品，返回顺序不保证
	GetProductsByIDs(ctx context.Context, ids []int64) ([]*core.Product, error)

	// GetInStockProducts 获取全部有库存的商品
	GetInStockProducts(ctx context.Context) ([]*core.Product, error)
}

// Content 是基于内容的召回源（Content-Based Recommendation）。
//
// 核心思想："用户反复浏览的类目/品牌，加上显式声明的偏好，
// 刻画了他会喜欢什么样的商品"
//
// 算法流程：
//  1. 最近 HistoryWindow 条行为 → 类目/品牌频次统计 + 已交互商品集合
//  2. 对每个未交互的在售商品，按频次占比、显式偏好、口碑加权打分
//  3. 只保留分数严格为正的商品
//
// 用户不存在或偏好数据缺失/畸形时按空偏好处理，不报错。
type Content struct {
	Store ContentStore

	// HistoryWindow 读取的最近行为条数
	HistoryWindow int
}

func (r *Content) Name() string {
	return "recall.content"
}

func (r *Content) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Store == nil || rctx == nil || rctx.UserID == 0 {
		return nil, nil
	}

	window := r.HistoryWindow
	if window <= 0 {
		window = 50
	}

	events, err := r.Store.GetRecentHistory(ctx, rctx.UserID, window)
	if err != nil {
		return nil, err
	}

	// 行为关联的商品：频次按事件计，同一商品看三次就是三票
	eventIDs := make([]int64, 0, len(events))
	seen := make(map[int64]struct{}, len(events))
	for _, ev := range events {
		if _, ok := seen[ev.ProductID]; !ok {
			seen[ev.ProductID] = struct{}{}
			eventIDs = append(eventIDs, ev.ProductID)
		}
	}

	var eventProducts map[int64]*core.Product
	if len(eventIDs) > 0 {
		products, err := r.Store.GetProductsByIDs(ctx, eventIDs)
		if err != nil {
			return nil, err
		}
		eventProducts = make(map[int64]*core.Product, len(products))
		for _, p := range products {
			eventProducts[p.ID] = p
		}
	}

	categoryCounts := make(map[string]int)
	brandCounts := make(map[string]int)
	viewed := make(map[int64]struct{})

	for _, ev := range events {
		p, ok := eventProducts[ev.ProductID]
		if !ok {
			continue // 商品已下架删除，行为记录不再计入
		}
		viewed[p.ID] = struct{}{}
		categoryCounts[p.Category]++
		if p.Brand != "" {
			brandCounts[p.Brand]++
		}
	}

	maxCategory := maxCount(categoryCounts)
	maxBrand := maxCount(brandCounts)

	prefs, err := r.userPreferences(ctx, rctx.UserID)
	if err != nil {
		return nil, err
	}

	candidates, err := r.Store.GetInStockProducts(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Item, 0)
	for _, p := range candidates {
		if _, ok := viewed[p.ID]; ok {
			continue
		}

		var score float64

		if n, ok := categoryCounts[p.Category]; ok {
			score += float64(n) / float64(maxCategory) * categoryFreqWeight
		}
		if p.Brand != "" {
			if n, ok := brandCounts[p.Brand]; ok {
				score += float64(n) / float64(maxBrand) * brandFreqWeight
			}
		}
		if prefs.HasCategory(p.Category) {
			score += prefCategoryBonus
		}
		if prefs.HasBrand(p.Brand) {
			score += prefBrandBonus
		}
		if p.Rated() {
			score += p.Rating / core.MaxRatingScore * ratingBoostWeight
		}

		if score > 0 {
			it := core.NewItem(p.ID)
			it.Score = score
			it.PutLabel("recall_source", utils.Label{Value: "content", Source: "recall"})
			out = append(out, it)
		}
	}
	sortItems(out)

	return out, nil
}

// userPreferences 读取显式偏好；用户不存在按空偏好处理，I/O 错误原样上抛。
func (r *Content) userPreferences(ctx context.Context, userID int64) (core.Preferences, error) {
	u, err := r.Store.GetUser(ctx, userID)
	if core.IsStoreNotFound(err) {
		return core.Preferences{}, nil
	}
	if err != nil {
		return core.Preferences{}, err
	}
	return u.Preferences, nil
}

func maxCount(counts map[string]int) int {
	max := 0
	for _, n := range counts {
		if n > max {
			max = n
		}
	}
	if max == 0 {
		return 1 // 除数保护：空统计时频次项本来就不会命中
	}
	return max
}
