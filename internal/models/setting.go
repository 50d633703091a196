package models

import (
	"time"
)

// Setting is a single key-value entry of the account configuration store.
type Setting struct {
	Key       string    `gorm:"column:key;type:varchar(100);primaryKey"`
	Value     string    `gorm:"column:value;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamp;default:current_timestamp"`
}

func (Setting) TableName() string {
	return "settings"
}
