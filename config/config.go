package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// 固定策略常量的默认值。三路融合权重、邻居上限、行为窗口等都是
// 业务策略而非算法本身，集中在这里以便调参时不碰打分逻辑。
const (
	DefaultCollaborativeWeight = 0.4
	DefaultContentWeight       = 0.4
	DefaultPopularityWeight    = 0.2

	DefaultNeighborLimit    = 10 // 协同过滤最多参考的相似用户数
	DefaultMinCommonRatings = 2  // 计算相似度要求的最少共同评分数
	DefaultHistoryWindow    = 50 // 内容召回读取的最近行为条数

	DefaultHighRatingThreshold = 4.0 // "高分"阈值：邻居计票与已评分降权共用
	DefaultDemoteFactor        = 0.3 // 已高分商品的融合分降权系数

	DefaultLimit = 10 // 未指定时的推荐条数
)

// Engine 是推荐引擎的策略配置。
type Engine struct {
	// 三路融合权重：协同过滤 / 内容匹配 / 热门兜底
	CollaborativeWeight float64 `yaml:"collaborative_weight"`
	ContentWeight       float64 `yaml:"content_weight"`
	PopularityWeight    float64 `yaml:"popularity_weight"`

	// 协同过滤
	NeighborLimit    int `yaml:"neighbor_limit"`
	MinCommonRatings int `yaml:"min_common_ratings"`

	// 内容召回
	HistoryWindow int `yaml:"history_window"`

	// 已评分降权
	HighRatingThreshold float64 `yaml:"high_rating_threshold"`
	DemoteFactor        float64 `yaml:"demote_factor"`

	DefaultLimit int `yaml:"default_limit"`

	// Rules 是可选的运营规则：CEL 条件命中时对融合分乘以 Factor。
	Rules []Rule `yaml:"rules"`
}

// Rule 是一条运营规则配置。
type Rule struct {
	Expr   string  `yaml:"expr"`   // CEL 表达式，例如 `label.recall_source.contains("popularity")`
	Factor float64 `yaml:"factor"` // 命中后的分数系数
}

// Default 返回携带全部默认值的配置。
func Default() Engine {
	return Engine{
		CollaborativeWeight: DefaultCollaborativeWeight,
		ContentWeight:       DefaultContentWeight,
		PopularityWeight:    DefaultPopularityWeight,
		NeighborLimit:       DefaultNeighborLimit,
		MinCommonRatings:    DefaultMinCommonRatings,
		HistoryWindow:       DefaultHistoryWindow,
		HighRatingThreshold: DefaultHighRatingThreshold,
		DemoteFactor:        DefaultDemoteFactor,
		DefaultLimit:        DefaultLimit,
	}
}

// File 是配置文件的顶层结构。
type File struct {
	Engine Engine `yaml:"engine"`
}

// LoadFromYAML 从 YAML 文件加载引擎配置，未出现的字段回落到默认值。
func LoadFromYAML(path string) (*Engine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	cfg := f.Engine
	cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 检查配置的一致性。三路权重一旦显式给出就必须配满：
// 和不为 1 基本是只配了其中一路的漏配，报错比静默跑偏更好。
// 关掉某一路请显式写 0 并把剩余权重补到 1。
func (c *Engine) Validate() error {
	sum := c.CollaborativeWeight + c.ContentWeight + c.PopularityWeight
	if math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("blend weights must sum to 1, got %.3f (collaborative=%.3f content=%.3f popularity=%.3f)",
			sum, c.CollaborativeWeight, c.ContentWeight, c.PopularityWeight)
	}
	if c.DemoteFactor <= 0 || c.DemoteFactor > 1 {
		return fmt.Errorf("demote factor must be in (0, 1], got %.3f", c.DemoteFactor)
	}
	return nil
}

// FillDefaults 把零值字段回填为默认值。
// 权重三项整体处理：只要有一项显式给出就全部沿用文件值，
// 避免"显式配 0 关闭一路"被误判为缺省。
func (c *Engine) FillDefaults() {
	if c.CollaborativeWeight == 0 && c.ContentWeight == 0 && c.PopularityWeight == 0 {
		c.CollaborativeWeight = DefaultCollaborativeWeight
		c.ContentWeight = DefaultContentWeight
		c.PopularityWeight = DefaultPopularityWeight
	}
	if c.NeighborLimit <= 0 {
		c.NeighborLimit = DefaultNeighborLimit
	}
	if c.MinCommonRatings <= 0 {
		c.MinCommonRatings = DefaultMinCommonRatings
	}
	if c.HistoryWindow <= 0 {
		c.HistoryWindow = DefaultHistoryWindow
	}
	if c.HighRatingThreshold <= 0 {
		c.HighRatingThreshold = DefaultHighRatingThreshold
	}
	if c.DemoteFactor <= 0 {
		c.DemoteFactor = DefaultDemoteFactor
	}
	if c.DefaultLimit <= 0 {
		c.DefaultLimit = DefaultLimit
	}
}
