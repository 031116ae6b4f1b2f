package core

import "github.com/shopstream/shoprec/pkg/utils"

// RecommendContext 承载一次推荐请求的用户与请求信息，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	UserID int64

	// Limit 是本次请求期望返回的商品数量上限。
	Limit int

	// Labels 是请求级标签，可驱动 Pipeline 行为（例如新用户、冷启动）。
	Labels map[string]utils.Label

	// Params 请求级上下文参数（场景、设备、实验桶等），引擎本身不消费，
	// 留给规则 DSL 与自定义 Node 使用。
	Params map[string]any
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
