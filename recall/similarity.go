package recall

import (
	"math"
	"sort"

	"github.com/shopstream/shoprec/core"
)

// Pearson 计算两个等长评分向量的皮尔逊相关系数，取值 ∈ [-1, 1]。
//
// 退化输入一律返回中性值 0，而不是报错：
//   - 长度不一致或为空
//   - 任一向量方差为 0（常量向量）
//
// 这保证相似度计算永远不会成为一次推荐请求的失败原因。
func Pearson(x, y []float64) float64 {
	if len(x) != len(y) || len(x) == 0 {
		return 0
	}

	var meanX, meanY float64
	for i := range x {
		meanX += x[i]
		meanY += y[i]
	}
	meanX /= float64(len(x))
	meanY /= float64(len(y))

	var cov, varX, varY float64
	for i := range x {
		dx := x[i] - meanX
		dy := y[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	if varX == 0 || varY == 0 {
		return 0
	}

	return cov / math.Sqrt(varX*varY)
}

// sortItems 按分数降序排列，同分按商品 ID 升序，保证输出确定。
func sortItems(items []*core.Item) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].ID < items[j].ID
	})
}
