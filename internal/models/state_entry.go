package models

import "time"

// StateEntry 会话状态键值表（每个浏览器会话的购物车、优惠码各占一行）
type StateEntry struct {
	Key       string    `gorm:"primarykey;type:varchar(191)" json:"key"`                  // 带会话前缀的键
	Session   string    `gorm:"type:varchar(64);not null;default:'';index" json:"session"` // 会话ID，过期清理按会话整体删除
	Value     string    `gorm:"type:text;not null" json:"value"`                          // JSON 序列化后的值
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`                                  // 更新时间
}

// TableName 指定表名
func (StateEntry) TableName() string {
	return "state_entries"
}
