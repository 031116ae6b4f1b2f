package engine

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/shopstream/shoprec/aggregate"
	"github.com/shopstream/shoprec/config"
	"github.com/shopstream/shoprec/core"
	"github.com/shopstream/shoprec/filter"
	"github.com/shopstream/shoprec/pipeline"
	"github.com/shopstream/shoprec/recall"
	"github.com/shopstream/shoprec/rerank"
)

// Engine 是推荐引擎的对外门面，组装召回/重排 Pipeline 并维护评分聚合。
//
// 对外两类操作：
//   - Recommend: 三路混合打分，返回按融合分排好序的商品
//   - OnRatingChanged: 评分变更后的同步聚合重算
//
// 写辅助（SubmitRating / TrackEvent / UpdatePreferences）要求存储
// 同时实现 core.CatalogWriter。
//
// 每次请求读取一致的数据快照做纯内存打分；多个请求之间没有共享可变
// 状态，可并行执行。请求级超时由调用方通过 ctx 掌控。
type Engine struct {
	store  core.CatalogStore
	writer core.CatalogWriter
	cfg    config.Engine
	log    *zap.Logger
	agg    *aggregate.Aggregator
	rules  []rerank.Rule
}

// Option 配置 Engine。
type Option func(*Engine)

// WithConfig 指定策略配置（缺省字段回填默认值）。
func WithConfig(cfg config.Engine) Option {
	return func(e *Engine) { e.cfg = cfg }
}

// WithWriter 指定写侧实现。存储本身实现 CatalogWriter 时可省略。
func WithWriter(w core.CatalogWriter) Option {
	return func(e *Engine) { e.writer = w }
}

// WithLogger 指定日志器，默认 Nop。
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// New 创建引擎。配置在装配期校验：权重配置不一致、规则表达式非法都直接报错。
func New(store core.CatalogStore, opts ...Option) (*Engine, error) {
	e := &Engine{
		store: store,
		cfg:   config.Default(),
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.cfg.FillDefaults()
	if err := e.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}

	if e.writer == nil {
		if w, ok := store.(core.CatalogWriter); ok {
			e.writer = w
		}
	}

	e.agg = &aggregate.Aggregator{Store: store}

	for _, rc := range e.cfg.Rules {
		rule, err := rerank.NewRule(rc.Expr, rc.Factor)
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", rc.Expr, err)
		}
		e.rules = append(e.rules, rule)
	}

	return e, nil
}

// Recommend 为用户生成至多 limit 个推荐，按融合分降序返回完整商品记录。
// 未知用户直接返回热门兜底的 TopN，不融合不降权。
// limit <= 0 时使用配置的默认条数。
func (e *Engine) Recommend(ctx context.Context, userID int64, limit int) ([]*core.Product, error) {
	start := time.Now()
	if limit <= 0 {
		limit = e.cfg.DefaultLimit
	}
	rctx := &core.RecommendContext{UserID: userID, Limit: limit}

	if _, err := e.store.GetUser(ctx, userID); err != nil {
		if !core.IsStoreNotFound(err) {
			return nil, err
		}
		products, err := e.popularOnly(ctx, rctx)
		if err != nil {
			return nil, err
		}
		e.log.Info("recommend cold-start fallback",
			zap.Int64("user_id", userID),
			zap.Int("results", len(products)),
			zap.Duration("took", time.Since(start)))
		return products, nil
	}

	items, err := e.buildPipeline(limit).Run(ctx, rctx, nil)
	if err != nil {
		return nil, err
	}

	products, err := e.resolve(ctx, items)
	if err != nil {
		return nil, err
	}

	e.log.Info("recommend",
		zap.Int64("user_id", userID),
		zap.Int("limit", limit),
		zap.Int("results", len(products)),
		zap.Duration("took", time.Since(start)))
	return products, nil
}

// OnRatingChanged 重算并回写商品的评分聚合。必须在评分写入后、
// 调用方收到成功之前同步调用。
func (e *Engine) OnRatingChanged(ctx context.Context, productID int64) error {
	if err := e.agg.OnRatingChanged(ctx, productID); err != nil {
		return err
	}
	e.log.Debug("product aggregate refreshed", zap.Int64("product_id", productID))
	return nil
}

// SubmitRating 校验并写入评分（同一 (user, product) 原地覆盖），
// 然后同步刷新商品聚合。
func (e *Engine) SubmitRating(ctx context.Context, r core.Rating) error {
	if !r.ValidScore() {
		return core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput,
			fmt.Sprintf("engine: rating score %.1f out of range [1,5]", r.Score))
	}
	w, err := e.requireWriter()
	if err != nil {
		return err
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now()
	}

	if err := w.SaveRating(ctx, r); err != nil {
		return err
	}
	return e.OnRatingChanged(ctx, r.ProductID)
}

// TrackEvent 追加一条行为记录，Action 缺省为 view。
func (e *Engine) TrackEvent(ctx context.Context, ev core.HistoryEvent) error {
	w, err := e.requireWriter()
	if err != nil {
		return err
	}
	if ev.Action == "" {
		ev.Action = core.ActionView
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	return w.AppendHistory(ctx, ev)
}

// UpdatePreferences 整体替换用户的偏好记录。
func (e *Engine) UpdatePreferences(ctx context.Context, userID int64, prefs core.Preferences) error {
	w, err := e.requireWriter()
	if err != nil {
		return err
	}

	u, err := e.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	u.Preferences = prefs
	return w.SaveUser(ctx, u)
}

// buildPipeline 装配一次请求的处理链：
// 三路并发召回加权融合 → 库存过滤 → 已高分降权 → 运营规则 → 确定性排序截断。
func (e *Engine) buildPipeline(limit int) *pipeline.Pipeline {
	nodes := []pipeline.Node{
		&recall.Fanout{
			Sources: []recall.Weighted{
				{
					Source: &recall.UserCF{
						Store:            e.store,
						NeighborLimit:    e.cfg.NeighborLimit,
						MinCommonRatings: e.cfg.MinCommonRatings,
						VoteThreshold:    e.cfg.HighRatingThreshold,
					},
					Weight: e.cfg.CollaborativeWeight,
				},
				{
					Source: &recall.Content{
						Store:         e.store,
						HistoryWindow: e.cfg.HistoryWindow,
					},
					Weight: e.cfg.ContentWeight,
				},
				{
					Source: &recall.Popularity{Store: e.store, Limit: limit},
					Weight: e.cfg.PopularityWeight,
				},
			},
		},
		&filter.InStock{Store: e.store},
		&rerank.RatedDemotion{
			Store:     e.store,
			Threshold: e.cfg.HighRatingThreshold,
			Factor:    e.cfg.DemoteFactor,
		},
	}
	if len(e.rules) > 0 {
		nodes = append(nodes, &rerank.RuleNode{Rules: e.rules})
	}
	nodes = append(nodes, &rerank.TopN{N: limit})

	return &pipeline.Pipeline{Nodes: nodes}
}

// popularOnly 是冷启动路径：热门兜底的 TopN 原样返回。
func (e *Engine) popularOnly(ctx context.Context, rctx *core.RecommendContext) ([]*core.Product, error) {
	pop := &recall.Popularity{Store: e.store, Limit: rctx.Limit}
	items, err := pop.Recall(ctx, rctx)
	if err != nil {
		return nil, err
	}
	return e.resolve(ctx, items)
}

// resolve 把候选 ID 解析回完整商品记录。协作方不保证返回顺序，
// 这里按候选顺序重排，保证最终输出与融合分排序完全一致。
func (e *Engine) resolve(ctx context.Context, items []*core.Item) ([]*core.Product, error) {
	if len(items) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}

	products, err := e.store.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*core.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	out := make([]*core.Product, 0, len(items))
	for _, it := range items {
		if p, ok := byID[it.ID]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (e *Engine) requireWriter() (core.CatalogWriter, error) {
	if e.writer == nil {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeNotSupported,
			"engine: store does not support writes")
	}
	return e.writer, nil
}
