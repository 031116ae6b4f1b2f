package utils

// Label 记录一个候选商品在链路中被谁、因为什么打上的标记。
// 召回源写入 recall_source（usercf / content / popularity），
// 降权与运营规则追加 demoted / rule_hit，最终结果可以据此解释
// "这个商品为什么被推出来"。
type Label struct {
	Value  string `json:"value"`
	Source string `json:"source"` // 写入方的节点名，例如 recall.usercf
}

// MergeLabel 合并同名 Label。多路召回命中同一商品时标记不覆盖而是累积，
// Value 以 '|' 连接、Source 以 ',' 连接，保留完整的来源轨迹。
func MergeLabel(existing Label, incoming Label) Label {
	if existing.Value == "" {
		return incoming
	}
	if incoming.Value == "" {
		return existing
	}

	merged := existing
	merged.Value = existing.Value + "|" + incoming.Value
	switch {
	case existing.Source == "":
		merged.Source = incoming.Source
	case incoming.Source == "":
		merged.Source = existing.Source
	default:
		merged.Source = existing.Source + "," + incoming.Source
	}
	return merged
}
