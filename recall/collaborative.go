package recall

import (
	"context"
	"sort"

	"github.com/shopstream/shoprec/core"
	"github.com/shopstream/shoprec/pkg/utils"
)

// RatingStore 是协同过滤的存储接口，core.CatalogStore 天然满足。
type RatingStore interface {
	// GetRatingsByUser 获取某用户的全部评分
	GetRatingsByUser(ctx context.Context, userID int64) ([]core.Rating, error)

	// GetAllRatings 获取全部评分（用于构建跨用户评分矩阵）
	GetAllRatings(ctx context.Context) ([]core.Rating, error)
}

// UserCF 是基于用户的协同过滤召回源（User-based Collaborative Filtering）。
//
// 核心思想："兴趣相似的用户，喜欢相似的商品"
//
// 算法流程：
//  1. 目标用户无评分 → 产出空集，上游回落到热门兜底
//  2. 全量评分 → 稀疏矩阵 user → (product → score)
//  3. 与目标用户共同评分 ≥ MinCommonRatings 的其他用户，
//     在共同商品上计算 Pearson 相似度
//  4. 只保留正相似度，取 TopK 个邻居
//  5. 邻居对目标未评分商品的高分评价按相似度加权计票，
//     每票同时把相似度累入归一化分母
//  6. 总相似度 > 0 时做归一化
//
// 产出的分数无上界，只在本次调用内可比。
type UserCF struct {
	Store RatingStore

	// NeighborLimit 参与计票的 TopK 个相似用户
	NeighborLimit int

	// MinCommonRatings 两个用户至少需要多少个共同评分商品才计算相似度
	MinCommonRatings int

	// VoteThreshold 邻居评分达到该阈值才计票
	VoteThreshold float64
}

func (r *UserCF) Name() string {
	return "recall.usercf"
}

func (r *UserCF) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Store == nil || rctx == nil || rctx.UserID == 0 {
		return nil, nil
	}

	targetRatings, err := r.Store.GetRatingsByUser(ctx, rctx.UserID)
	if err != nil {
		return nil, err
	}
	if len(targetRatings) == 0 {
		return nil, nil
	}

	targetScores := make(map[int64]float64, len(targetRatings))
	for _, t := range targetRatings {
		targetScores[t.ProductID] = t.Score
	}

	all, err := r.Store.GetAllRatings(ctx)
	if err != nil {
		return nil, err
	}

	// 稀疏矩阵：user → (product → score)。稀疏是常态，不用稠密矩阵。
	matrix := make(map[int64]map[int64]float64)
	for _, rt := range all {
		if rt.UserID == rctx.UserID {
			continue
		}
		row := matrix[rt.UserID]
		if row == nil {
			row = make(map[int64]float64)
			matrix[rt.UserID] = row
		}
		row[rt.ProductID] = rt.Score
	}

	minCommon := r.MinCommonRatings
	if minCommon <= 0 {
		minCommon = 2
	}

	type neighbor struct {
		userID     int64
		similarity float64
		ratings    map[int64]float64
	}
	neighbors := make([]neighbor, 0)

	for userID, ratings := range matrix {
		xs := make([]float64, 0)
		ys := make([]float64, 0)
		for productID, score := range targetScores {
			if other, ok := ratings[productID]; ok {
				xs = append(xs, score)
				ys = append(ys, other)
			}
		}
		if len(xs) < minCommon {
			continue
		}

		sim := Pearson(xs, ys)
		if sim > 0 { // 只保留正相似度
			neighbors = append(neighbors, neighbor{
				userID:     userID,
				similarity: sim,
				ratings:    ratings,
			})
		}
	}

	// 相似度降序，同分按用户 ID 升序，保证 TopK 截断确定
	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].similarity != neighbors[j].similarity {
			return neighbors[i].similarity > neighbors[j].similarity
		}
		return neighbors[i].userID < neighbors[j].userID
	})

	topK := r.NeighborLimit
	if topK <= 0 {
		topK = 10
	}
	if len(neighbors) > topK {
		neighbors = neighbors[:topK]
	}

	voteThreshold := r.VoteThreshold
	if voteThreshold <= 0 {
		voteThreshold = 4
	}

	// 加权计票：score[product] = Σ(similarity × rating)
	// 归一化分母按"每张有效票"累积相似度，而不是每个邻居一次。
	scores := make(map[int64]float64)
	var totalSimilarity float64
	for _, nb := range neighbors {
		for productID, score := range nb.ratings {
			if _, rated := targetScores[productID]; rated {
				continue
			}
			if score < voteThreshold {
				continue
			}
			scores[productID] += nb.similarity * score
			totalSimilarity += nb.similarity
		}
	}

	if totalSimilarity > 0 {
		for productID := range scores {
			scores[productID] /= totalSimilarity
		}
	}

	out := make([]*core.Item, 0, len(scores))
	for productID, score := range scores {
		it := core.NewItem(productID)
		it.Score = score
		it.PutLabel("recall_source", utils.Label{Value: "usercf", Source: "recall"})
		out = append(out, it)
	}
	sortItems(out)

	return out, nil
}
