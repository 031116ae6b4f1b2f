package core

import (
	"encoding/json"
	"time"
)

// Preferences 是用户显式声明的偏好：偏好类目集合 + 偏好品牌集合。
// 两者都是可选的，零值即"无偏好"。
//
// 历史上偏好以不透明 JSON 文本存储，这里重设计为强类型记录：
// 缺失 / 畸形数据一律解码为空记录，不作为错误上抛。
type Preferences struct {
	Categories []string `json:"categories,omitempty"`
	Brands     []string `json:"brands,omitempty"`
}

// HasCategory 判断类目是否在偏好集合中。
func (p Preferences) HasCategory(category string) bool {
	for _, c := range p.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// HasBrand 判断品牌是否在偏好集合中。
func (p Preferences) HasBrand(brand string) bool {
	for _, b := range p.Brands {
		if b == brand {
			return true
		}
	}
	return false
}

// Empty 判断偏好记录是否为空。
func (p Preferences) Empty() bool {
	return len(p.Categories) == 0 && len(p.Brands) == 0
}

// DecodePreferences 从序列化文本解码偏好记录。
// 空输入或畸形 JSON 返回空记录，从不返回错误：偏好数据质量问题
// 不应该让一次推荐请求失败。
func DecodePreferences(data []byte) Preferences {
	if len(data) == 0 {
		return Preferences{}
	}
	var p Preferences
	if err := json.Unmarshal(data, &p); err != nil {
		return Preferences{}
	}
	return p
}

// User 是账号记录，携带偏好画像。
type User struct {
	ID          int64
	Name        string
	Email       string
	Preferences Preferences
	CreatedAt   time.Time
}
