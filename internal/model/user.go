package model

import "time"

// User 挑战成员模型
type User struct {
	BaseModel
	PublicID int64  `gorm:"uniqueIndex;not null" json:"public_id"`
	Name     string `gorm:"uniqueIndex;type:varchar(64);not null" json:"name"`
	Phone    string `gorm:"type:varchar(32);not null;default:''" json:"-"` // 罚金通知用，可为空

	// JoinedAt 为空表示从月初开始计罚
	JoinedAt *time.Time `gorm:"type:timestamptz" json:"joined_at,omitempty"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
