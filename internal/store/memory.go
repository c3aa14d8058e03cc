package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"RunCrew/internal/model"
)

// MemoryStore 内存实现，测试时替换掉数据库
type MemoryStore struct {
	mu      sync.RWMutex
	users   []model.User
	records []model.WorkoutRecord
	nextID  int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

func (s *MemoryStore) ListUsers(ctx context.Context) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.User, len(s.users))
	copy(out, s.users)
	return out, nil
}

func (s *MemoryStore) CreateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Name == user.Name {
			return ErrUserAlreadyExists
		}
	}

	user.ID = s.nextID
	s.nextID++
	s.users = append(s.users, *user)
	return nil
}

func (s *MemoryStore) GetUserByPublicID(ctx context.Context, publicID int64) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.PublicID == publicID {
			out := u
			return &out, nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *MemoryStore) UpdateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, u := range s.users {
		if u.PublicID == user.PublicID {
			for j, other := range s.users {
				if j != i && other.Name == user.Name {
					return ErrUserAlreadyExists
				}
			}
			s.users[i] = *user
			return nil
		}
	}
	return ErrUserNotFound
}

func (s *MemoryStore) AppendRecord(ctx context.Context, rec *model.WorkoutRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for _, u := range s.users {
		if u.PublicID == rec.UserID {
			found = true
			break
		}
	}
	if !found {
		return ErrUserNotFound
	}

	rec.ID = s.nextID
	s.nextID++
	s.records = append(s.records, *rec)
	return nil
}

func (s *MemoryStore) ListMonthRecords(ctx context.Context, monthPrefix string) ([]model.WorkoutRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.WorkoutRecord
	for _, r := range s.records {
		if r.IsValid && strings.HasPrefix(r.Date, monthPrefix) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (s *MemoryStore) ListRecentRecords(ctx context.Context, limit int) ([]model.WorkoutRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.WorkoutRecord, 0, len(s.records))
	for _, r := range s.records {
		if r.IsValid {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UploadedAt.After(out[j].UploadedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
