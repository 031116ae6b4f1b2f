package core

import "time"

// Action 是一次用户交互的类型。
type Action string

const (
	ActionView      Action = "view"
	ActionClick     Action = "click"
	ActionAddToCart Action = "add_to_cart"
	ActionPurchase  Action = "purchase"
)

// HistoryEvent 是一条用户行为记录，append-only：
// 只作为读信号消费（内容召回的频次统计），写入后不修改不删除。
type HistoryEvent struct {
	UserID    int64
	ProductID int64
	Action    Action
	Timestamp time.Time
}
