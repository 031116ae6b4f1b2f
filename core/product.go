package core

import "time"

// Product 是商品目录中的一条记录。
//
// Rating / NumRatings 是派生聚合，不是事实来源：它们必须始终等于当前存储的
// 全部评分的均值与条数，由 aggregate.Aggregator 全量重算回写，禁止增量漂移。
// 未被评分时 Rating 为 0、NumRatings 为 0。
type Product struct {
	ID          int64
	Name        string
	Category    string
	Subcategory string
	Brand       string
	Price       float64
	Description string
	Features    []string
	ImageURL    string

	// 派生聚合，见上
	Rating     float64
	NumRatings int

	Stock     int
	CreatedAt time.Time
}

// InStock 判断商品是否有库存。
func (p *Product) InStock() bool {
	return p != nil && p.Stock > 0
}

// Rated 判断商品是否至少有一条评分。
func (p *Product) Rated() bool {
	return p != nil && p.NumRatings > 0
}
