package core

import "time"

// 评分取值范围与"高分"阈值。
const (
	MinRatingScore = 1.0
	MaxRatingScore = 5.0
)

// Rating 是一条用户对商品的评分。
// 不变式：每个 (UserID, ProductID) 至多一条——重复提交在原条目上覆盖
// 分值与时间戳，不产生重复记录。覆盖语义由存储实现保证（见 store 包）。
type Rating struct {
	UserID    int64
	ProductID int64
	Score     float64 // ∈ [1, 5]
	Review    string
	Timestamp time.Time
}

// ValidScore 判断分值是否在合法区间内。
func (r Rating) ValidScore() bool {
	return r.Score >= MinRatingScore && r.Score <= MaxRatingScore
}
