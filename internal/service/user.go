package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"RunCrew/internal/model"
	"RunCrew/internal/model/dto"
	"RunCrew/internal/store"
	pkgerrors "RunCrew/pkg/errors"
	"RunCrew/pkg/snowflake"
	"RunCrew/storage/database"
)

// api 中的 user_id 都是 public_id

var (
	userService *UserService
	userOnce    sync.Once
)

func User() *UserService {
	userOnce.Do(func() {
		userService = NewUserService(store.NewGormStore(database.DB()))
	})
	return userService
}

type UserService struct {
	store store.Store
}

func NewUserService(st store.Store) *UserService {
	return &UserService{store: st}
}

// ListUsers 返回全部成员
func (s *UserService) ListUsers(ctx context.Context) ([]dto.UserData, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	out := make([]dto.UserData, 0, len(users))
	for _, u := range users {
		out = append(out, toUserData(u))
	}
	return out, nil
}

// CreateUser 创建成员，入队时间从当下算起
func (s *UserService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserData, error) {
	publicID, err := snowflake.NextID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate user id: %w", err)
	}

	now := time.Now().In(ChallengeLocation())
	user := &model.User{
		PublicID: publicID,
		Name:     req.Name,
		Phone:    req.Phone,
		JoinedAt: &now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	data := toUserData(*user)
	return &data, nil
}

// UpdateUser 显式改名或改手机号，其余字段不可变
func (s *UserService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest) (*dto.UserData, error) {
	uid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByPublicID(ctx, uid)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != "" {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	data := toUserData(*user)
	return &data, nil
}

func toUserData(u model.User) dto.UserData {
	data := dto.UserData{
		ID:       strconv.FormatInt(u.PublicID, 10),
		Name:     u.Name,
		HasPhone: u.Phone != "",
	}
	if u.JoinedAt != nil {
		data.JoinedAt = u.JoinedAt.Format(time.RFC3339)
	}
	return data
}

func parseUserID(userID string) (int64, error) {
	uid, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return 0, pkgerrors.InvalidUserID
	}
	return uid, nil
}
