package model

import "time"

// 1ユーザーにつきカートは1つ（初回の書き込みで遅延作成）。
// user_idのunique制約でGetOrCreateの競合を防ぐ。
type Cart struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex" json:"user_id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
