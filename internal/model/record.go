package model

import "time"

// WorkoutRecord 运动记录模型，仅保存通过校验的记录，只追加不修改
type WorkoutRecord struct {
	BaseModel
	PublicID     int64   `gorm:"uniqueIndex;not null" json:"public_id"`
	UserID       int64   `gorm:"not null;index:idx_workout_records_user_date" json:"user_id"` // 成员的 public_id

	Date         string  `gorm:"type:char(10);not null;index:idx_workout_records_user_date;index:idx_workout_records_date" json:"date"` // YYYY-MM-DD，挑战时区下的日期
	DistanceKm   float64 `gorm:"type:numeric(6,1);not null" json:"distance_km"`                                                         // 已截断到一位小数
	PaceMinPerKm float64 `gorm:"type:numeric(6,2);not null" json:"pace_min_per_km"`
	ImageURL     string  `gorm:"type:varchar(512);not null;default:''" json:"image_url"`
	IsValid      bool    `gorm:"not null;default:true" json:"is_valid"`

	UploadedAt time.Time `gorm:"type:timestamptz;not null" json:"uploaded_at"`
}

// TableName 指定表名
func (WorkoutRecord) TableName() string {
	return "workout_records"
}
