package model

import "time"

// Subscriber is a Telegram chat that receives triggered signals.
type Subscriber struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ChatID    int64     `gorm:"not null;uniqueIndex" json:"chat_id"`
	ChatType  string    `gorm:"not null" json:"chat_type"`
	Title     string    `json:"title"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Subscriber) TableName() string {
	return "subscribers"
}
