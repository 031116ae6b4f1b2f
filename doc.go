// Package shoprec 是一个商品推荐引擎（Shop Recommender）。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑通过 Node 串联（Recall 混合召回 → ReRank 降权/规则/截断）
// - 混合打分: 协同过滤 / 内容匹配 / 热门兜底三路并发召回，按固定权重融合
// - 存储即契约: 引擎只依赖 core.CatalogStore 定义的数据协作方接口，
//   store 包提供内存与 Redis 两种实现
package shoprec

import "github.com/shopstream/shoprec/pipeline"

// 轻量 facade：便于用户直接 import "shoprec" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
