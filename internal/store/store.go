package store

import (
	"context"

	"RunCrew/internal/model"
	"RunCrew/pkg/errors"
)

// 持久层抽象，service 只认这个接口
// 线上走 PostgreSQL，测试用内存实现替换

var (
	ErrUserNotFound      = errors.UserNotFound
	ErrUserAlreadyExists = errors.UserAlreadyExists
)

type Store interface {
	// ListUsers 返回全部成员，按创建时间升序
	ListUsers(ctx context.Context) ([]model.User, error)

	// CreateUser 创建成员，名字重复返回 ErrUserAlreadyExists
	CreateUser(ctx context.Context, user *model.User) error

	// GetUserByPublicID 按 public_id 查成员，不存在返回 ErrUserNotFound
	GetUserByPublicID(ctx context.Context, publicID int64) (*model.User, error)

	// UpdateUser 持久化成员字段变更
	UpdateUser(ctx context.Context, user *model.User) error

	// AppendRecord 追加一条有效记录，成员不存在返回 ErrUserNotFound
	AppendRecord(ctx context.Context, rec *model.WorkoutRecord) error

	// ListMonthRecords 返回指定月份（"2006-01" 前缀）的全部有效记录
	ListMonthRecords(ctx context.Context, monthPrefix string) ([]model.WorkoutRecord, error)

	// ListRecentRecords 按上传时间降序返回最近的有效记录
	ListRecentRecords(ctx context.Context, limit int) ([]model.WorkoutRecord, error)
}
