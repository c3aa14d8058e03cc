package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"RunCrew/internal/model"
)

type gormStore struct {
	db *gorm.DB
}

// NewGormStore 用给定的 gorm 连接构造持久层
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := s.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&users).Error
	return users, err
}

func (s *gormStore) CreateUser(ctx context.Context, user *model.User) error {
	err := s.db.WithContext(ctx).Create(user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

func (s *gormStore) GetUserByPublicID(ctx context.Context, publicID int64) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).
		Where("public_id = ?", publicID).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *gormStore) UpdateUser(ctx context.Context, user *model.User) error {
	err := s.db.WithContext(ctx).Save(user).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrUserAlreadyExists
	}
	return err
}

func (s *gormStore) AppendRecord(ctx context.Context, rec *model.WorkoutRecord) error {
	// 先确认成员存在，记录只追加不修改
	if _, err := s.GetUserByPublicID(ctx, rec.UserID); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Create(rec).Error
}

func (s *gormStore) ListMonthRecords(ctx context.Context, monthPrefix string) ([]model.WorkoutRecord, error) {
	var records []model.WorkoutRecord
	err := s.db.WithContext(ctx).
		Where("date LIKE ? AND is_valid = ?", monthPrefix+"%", true).
		Order("date ASC").
		Find(&records).Error
	return records, err
}

func (s *gormStore) ListRecentRecords(ctx context.Context, limit int) ([]model.WorkoutRecord, error) {
	var records []model.WorkoutRecord
	err := s.db.WithContext(ctx).
		Where("is_valid = ?", true).
		Order("uploaded_at DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}
