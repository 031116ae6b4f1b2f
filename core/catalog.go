package core

import "context"

// CatalogStore 是数据协作方的领域接口：推荐引擎的全部读依赖 + 聚合回写。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store）实现
//   - 遵循依赖倒置原则：领域层定义接口，基础设施层实现接口
//   - 读写视为原子同步操作，不向引擎暴露部分失败状态
//
// 错误约定：
//   - 实体不存在（GetUser 未命中）返回 ErrStoreNotFound，调用方据此走兜底路径
//   - 其余 I/O 错误原样上抛，引擎不捕获
type CatalogStore interface {
	// GetUser 获取用户记录；未命中返回 ErrStoreNotFound
	GetUser(ctx context.Context, id int64) (*User, error)

	// GetRatingsByUser 获取某用户的全部评分
	GetRatingsByUser(ctx context.Context, userID int64) ([]Rating, error)

	// GetAllRatings 获取全部评分（用于构建跨用户评分矩阵）
	GetAllRatings(ctx context.Context) ([]Rating, error)

	// GetRecentHistory 获取某用户最近的行为记录，最近的在前
	GetRecentHistory(ctx context.Context, userID int64, limit int) ([]HistoryEvent, error)

	// GetInStockProducts 获取全部有库存的商品
	GetInStockProducts(ctx context.Context) ([]*Product, error)

	// GetProductsByIDs 按 ID 批量获取商品，返回顺序不保证
	GetProductsByIDs(ctx context.Context, ids []int64) ([]*Product, error)

	// GetRatingsByProduct 获取某商品的全部评分
	GetRatingsByProduct(ctx context.Context, productID int64) ([]Rating, error)

	// SaveProductAggregate 回写商品的评分聚合（均值 + 条数）
	SaveProductAggregate(ctx context.Context, productID int64, rating float64, count int) error
}

// CatalogWriter 是数据协作方的写接口，服务于评分提交、行为上报、
// 偏好更新与目录装载。评分核心只依赖 CatalogStore；引擎的写辅助方法
// 额外要求实现方同时满足 CatalogWriter。
type CatalogWriter interface {
	// SaveRating 写入评分；同一 (user, product) 已有评分时原地覆盖
	SaveRating(ctx context.Context, r Rating) error

	// AppendHistory 追加一条行为记录
	AppendHistory(ctx context.Context, ev HistoryEvent) error

	// SaveUser 创建或整体覆盖用户记录
	SaveUser(ctx context.Context, u *User) error

	// SaveProduct 创建或整体覆盖商品记录
	SaveProduct(ctx context.Context, p *Product) error
}

// Catalog 组合读写两侧，内存 / Redis 实现都满足它。
type Catalog interface {
	CatalogStore
	CatalogWriter
}
