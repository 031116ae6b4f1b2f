package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/shopstream/shoprec/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
	celEnvErr  error
)

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.DynType),
			cel.Variable("label", cel.DynType),
			cel.Variable("rctx", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Program 是一条编译好的规则表达式，编译一次、逐 item 求值。
//
// 表达式使用 CEL (Common Expression Language) 语法，可访问：
//   - item: id / score / labels
//   - label: 标签值的顶层快捷访问，例如 label.recall_source
//   - rctx: user_id / limit / params
//
// 示例：
//   - `label.recall_source.contains("popularity")` → 由热门路召回
//   - `item.score > 0.7` → 融合分超过 0.7
//   - `"usercf" in label.recall_source && item.score > 0.5`
//
// 注意：CEL 访问不存在的 key 会报错，检查存在性请用 `label.key != null`。
type Program struct {
	prg cel.Program
}

// Compile 编译 CEL 表达式。表达式必须返回布尔值。
func Compile(expr string) (*Program, error) {
	if expr == "" {
		return nil, fmt.Errorf("empty expression")
	}

	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %v", issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %v", err)
	}

	return &Program{prg: prg}, nil
}

// Eval 对单个候选求值，返回布尔结果。
func (p *Program) Eval(item *core.Item, rctx *core.RecommendContext) (bool, error) {
	out, _, err := p.prg.Eval(buildInput(item, rctx))
	if err != nil {
		return false, fmt.Errorf("eval error: %v", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

func buildInput(item *core.Item, rctx *core.RecommendContext) map[string]interface{} {
	labels := make(map[string]interface{})
	labelAccessor := make(map[string]interface{})
	if item != nil {
		for k, v := range item.Labels {
			labels[k] = map[string]interface{}{
				"value":  v.Value,
				"source": v.Source,
			}
			// label.recall_source 直接返回 value，便于写短表达式
			labelAccessor[k] = v.Value
		}
	}

	itemInput := map[string]interface{}{}
	if item != nil {
		itemInput["id"] = item.ID
		itemInput["score"] = item.Score
		itemInput["labels"] = labels
	}

	rctxInput := map[string]interface{}{}
	if rctx != nil {
		rctxInput["user_id"] = rctx.UserID
		rctxInput["limit"] = rctx.Limit
		rctxInput["params"] = rctx.Params
	}

	return map[string]interface{}{
		"item":  itemInput,
		"label": labelAccessor,
		"rctx":  rctxInput,
	}
}
