package store

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/shopstream/shoprec/core"
)

// Redis 键布局：
//   catalog:products                 hash  productID → Product JSON
//   catalog:users                    hash  userID → User JSON
//   catalog:ratings:product:{pid}    hash  userID → Rating JSON
//   catalog:ratings:user:{uid}       hash  productID → Rating JSON
//   catalog:rating_users             set   有评分的 userID（全量矩阵的索引）
//   catalog:history:{uid}            list  HistoryEvent JSON，LPUSH 后头部即最近
const (
	keyProducts    = "catalog:products"
	keyUsers       = "catalog:users"
	keyRatingUsers = "catalog:rating_users"

	keyPrefixRatingsByProduct = "catalog:ratings:product:"
	keyPrefixRatingsByUser    = "catalog:ratings:user:"
	keyPrefixHistory          = "catalog:history:"
)

// RedisCatalog 是 Redis 实现的 Catalog。生产环境常用，
// 支持持久化、集群、哨兵等。评分双写到按商品与按用户两个 hash，
// 换两侧 O(1) 的读取。
//
// SaveProductAggregate 采用读-改-写：聚合本身从全量评分重算、幂等可重跑，
// 但协作方约定仍要求同一商品的并发聚合回写由上层串行化。
type RedisCatalog struct {
	client *redis.Client
}

var _ core.Catalog = (*RedisCatalog)(nil)

func NewRedisCatalog(addr string, db int) (*RedisCatalog, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &RedisCatalog{client: client}, nil
}

// NewRedisCatalogFromClient 复用已有连接（连接池/哨兵配置由调用方掌控）。
func NewRedisCatalogFromClient(client *redis.Client) *RedisCatalog {
	return &RedisCatalog{client: client}
}

func (r *RedisCatalog) Close() error {
	return r.client.Close()
}

func (r *RedisCatalog) GetUser(ctx context.Context, id int64) (*core.User, error) {
	data, err := r.client.HGet(ctx, keyUsers, formatID(id)).Bytes()
	if err == redis.Nil {
		return nil, core.ErrStoreNotFound
	}
	if err != nil {
		return nil, err
	}

	var u core.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *RedisCatalog) GetRatingsByUser(ctx context.Context, userID int64) ([]core.Rating, error) {
	return r.ratingsFromHash(ctx, keyPrefixRatingsByUser+formatID(userID))
}

func (r *RedisCatalog) GetAllRatings(ctx context.Context) ([]core.Rating, error) {
	userIDs, err := r.client.SMembers(ctx, keyRatingUsers).Result()
	if err != nil {
		return nil, err
	}

	out := make([]core.Rating, 0)
	for _, uid := range userIDs {
		rs, err := r.ratingsFromHash(ctx, keyPrefixRatingsByUser+uid)
		if err != nil {
			return nil, err
		}
		out = append(out, rs...)
	}
	return out, nil
}

func (r *RedisCatalog) GetRecentHistory(ctx context.Context, userID int64, limit int) ([]core.HistoryEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.client.LRange(ctx, keyPrefixHistory+formatID(userID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	out := make([]core.HistoryEvent, 0, len(rows))
	for _, row := range rows {
		var ev core.HistoryEvent
		if err := json.Unmarshal([]byte(row), &ev); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, nil
}

func (r *RedisCatalog) GetInStockProducts(ctx context.Context) ([]*core.Product, error) {
	rows, err := r.client.HGetAll(ctx, keyProducts).Result()
	if err != nil {
		return nil, err
	}

	out := make([]*core.Product, 0, len(rows))
	for _, row := range rows {
		var p core.Product
		if err := json.Unmarshal([]byte(row), &p); err != nil {
			return nil, err
		}
		if p.Stock > 0 {
			out = append(out, &p)
		}
	}
	return out, nil
}

func (r *RedisCatalog) GetProductsByIDs(ctx context.Context, ids []int64) ([]*core.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	fields := make([]string, 0, len(ids))
	for _, id := range ids {
		fields = append(fields, formatID(id))
	}

	vals, err := r.client.HMGet(ctx, keyProducts, fields...).Result()
	if err != nil {
		return nil, err
	}

	out := make([]*core.Product, 0, len(vals))
	for _, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue // 未命中的 ID 静默跳过
		}
		var p core.Product
		if err := json.Unmarshal([]byte(s), &p); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, nil
}

func (r *RedisCatalog) GetRatingsByProduct(ctx context.Context, productID int64) ([]core.Rating, error) {
	return r.ratingsFromHash(ctx, keyPrefixRatingsByProduct+formatID(productID))
}

func (r *RedisCatalog) SaveProductAggregate(ctx context.Context, productID int64, rating float64, count int) error {
	data, err := r.client.HGet(ctx, keyProducts, formatID(productID)).Bytes()
	if err == redis.Nil {
		return core.ErrStoreNotFound
	}
	if err != nil {
		return err
	}

	var p core.Product
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	p.Rating = rating
	p.NumRatings = count

	return r.saveProduct(ctx, &p)
}

func (r *RedisCatalog) SaveRating(ctx context.Context, rt core.Rating) error {
	data, err := json.Marshal(rt)
	if err != nil {
		return err
	}

	uid := formatID(rt.UserID)
	pid := formatID(rt.ProductID)

	// 双写 + 用户索引；hash field 覆盖即评分覆盖语义
	pipe := r.client.Pipeline()
	pipe.HSet(ctx, keyPrefixRatingsByUser+uid, pid, data)
	pipe.HSet(ctx, keyPrefixRatingsByProduct+pid, uid, data)
	pipe.SAdd(ctx, keyRatingUsers, uid)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *RedisCatalog) AppendHistory(ctx context.Context, ev core.HistoryEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return r.client.LPush(ctx, keyPrefixHistory+formatID(ev.UserID), data).Err()
}

func (r *RedisCatalog) SaveUser(ctx context.Context, u *core.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return r.client.HSet(ctx, keyUsers, formatID(u.ID), data).Err()
}

func (r *RedisCatalog) SaveProduct(ctx context.Context, p *core.Product) error {
	return r.saveProduct(ctx, p)
}

func (r *RedisCatalog) saveProduct(ctx context.Context, p *core.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return r.client.HSet(ctx, keyProducts, formatID(p.ID), data).Err()
}

func (r *RedisCatalog) ratingsFromHash(ctx context.Context, key string) ([]core.Rating, error) {
	rows, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}

	out := make([]core.Rating, 0, len(rows))
	for _, row := range rows {
		var rt core.Rating
		if err := json.Unmarshal([]byte(row), &rt); err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
