package store

import (
	"context"
	"sort"
	"sync"

	"github.com/shopstream/shoprec/core"
)

// MemoryCatalog 是内存实现的 Catalog，用于测试/开发/原型。
// 读写由 RWMutex 串行化，满足"冲突写不交错"的协作方约定；
// 返回的记录是副本，调用方持有的快照不会被后续写入改写。
//
// 为了让上层行为确定，列表型读取都按固定顺序返回：
// 评分按 (userID, productID) 升序，商品按 ID 升序。
type MemoryCatalog struct {
	mu       sync.RWMutex
	products map[int64]*core.Product
	users    map[int64]*core.User
	ratings  map[int64]map[int64]core.Rating // userID → productID → rating
	history  map[int64][]core.HistoryEvent   // userID → 按写入顺序追加
}

var _ core.Catalog = (*MemoryCatalog)(nil)

func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{
		products: make(map[int64]*core.Product),
		users:    make(map[int64]*core.User),
		ratings:  make(map[int64]map[int64]core.Rating),
		history:  make(map[int64][]core.HistoryEvent),
	}
}

func (m *MemoryCatalog) GetUser(ctx context.Context, id int64) (*core.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, core.ErrStoreNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MemoryCatalog) GetRatingsByUser(ctx context.Context, userID int64) ([]core.Rating, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	row := m.ratings[userID]
	out := make([]core.Rating, 0, len(row))
	for _, r := range row {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func (m *MemoryCatalog) GetAllRatings(ctx context.Context) ([]core.Rating, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]core.Rating, 0)
	for _, row := range m.ratings {
		for _, r := range row {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out, nil
}

func (m *MemoryCatalog) GetRecentHistory(ctx context.Context, userID int64, limit int) ([]core.HistoryEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := m.history[userID]
	if limit <= 0 || limit > len(events) {
		limit = len(events)
	}

	// 写入顺序是时间顺序，最近的在尾部；倒序返回最近的在前
	out := make([]core.HistoryEvent, 0, limit)
	for i := len(events) - 1; i >= len(events)-limit; i-- {
		out = append(out, events[i])
	}
	return out, nil
}

func (m *MemoryCatalog) GetInStockProducts(ctx context.Context) ([]*core.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*core.Product, 0)
	for _, p := range m.products {
		if p.Stock > 0 {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryCatalog) GetProductsByIDs(ctx context.Context, ids []int64) ([]*core.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*core.Product, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if p, ok := m.products[id]; ok {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MemoryCatalog) GetRatingsByProduct(ctx context.Context, productID int64) ([]core.Rating, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]core.Rating, 0)
	for _, row := range m.ratings {
		if r, ok := row[productID]; ok {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (m *MemoryCatalog) SaveProductAggregate(ctx context.Context, productID int64, rating float64, count int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[productID]
	if !ok {
		return core.ErrStoreNotFound
	}
	p.Rating = rating
	p.NumRatings = count
	return nil
}

func (m *MemoryCatalog) SaveRating(ctx context.Context, r core.Rating) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	row := m.ratings[r.UserID]
	if row == nil {
		row = make(map[int64]core.Rating)
		m.ratings[r.UserID] = row
	}
	// 同一 (user, product) 原地覆盖，不产生重复记录
	row[r.ProductID] = r
	return nil
}

// DeleteRating 删除一条评分（评分不存在时为 no-op）。
// 不属于 CatalogWriter 契约，聚合重置场景与测试使用。
func (m *MemoryCatalog) DeleteRating(ctx context.Context, userID, productID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if row, ok := m.ratings[userID]; ok {
		delete(row, productID)
	}
	return nil
}

func (m *MemoryCatalog) AppendHistory(ctx context.Context, ev core.HistoryEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.history[ev.UserID] = append(m.history[ev.UserID], ev)
	return nil
}

func (m *MemoryCatalog) SaveUser(ctx context.Context, u *core.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *MemoryCatalog) SaveProduct(ctx context.Context, p *core.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *p
	m.products[p.ID] = &cp
	return nil
}
