package rerank

import (
	"context"

	"github.com/shopstream/shoprec/core"
	"github.com/shopstream/shoprec/pipeline"
	"github.com/shopstream/shoprec/pkg/dsl"
	"github.com/shopstream/shoprec/pkg/utils"
)

// Rule 是一条运营规则：CEL 条件命中时对融合分乘以 Factor。
// Factor > 1 提权、< 1 降权，为 0 等价于隐藏。
type Rule struct {
	expr    string
	program *dsl.Program
	Factor  float64
}

// NewRule 编译一条规则，表达式非法时返回错误（在装配期暴露而不是请求期）。
func NewRule(expr string, factor float64) (Rule, error) {
	prog, err := dsl.Compile(expr)
	if err != nil {
		return Rule{}, err
	}
	return Rule{expr: expr, program: prog, Factor: factor}, nil
}

// RuleNode 依次对每个候选应用所有规则。单条规则的求值错误跳过该规则、
// 不中断请求；规则是调优手段，不应该把一次推荐打挂。
type RuleNode struct {
	Rules []Rule
}

func (n *RuleNode) Name() string        { return "rerank.rules" }
func (n *RuleNode) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *RuleNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(n.Rules) == 0 || len(items) == 0 {
		return items, nil
	}

	for _, it := range items {
		if it == nil {
			continue
		}
		for _, rule := range n.Rules {
			if rule.program == nil {
				continue
			}
			ok, err := rule.program.Eval(it, rctx)
			if err != nil || !ok {
				continue
			}
			it.Score *= rule.Factor
			it.PutLabel("rule_hit", utils.Label{Value: rule.expr, Source: "rule"})
		}
	}
	return items, nil
}
