package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"RunCrew/internal/model"
)

func TestMemoryStoreUsers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	u := &model.User{PublicID: 100, Name: "jun"}
	require.NoError(t, s.CreateUser(ctx, u))
	require.NotZero(t, u.ID)

	// 重名拒绝
	dup := &model.User{PublicID: 101, Name: "jun"}
	require.ErrorIs(t, s.CreateUser(ctx, dup), ErrUserAlreadyExists)

	got, err := s.GetUserByPublicID(ctx, 100)
	require.NoError(t, err)
	require.Equal(t, "jun", got.Name)

	_, err = s.GetUserByPublicID(ctx, 999)
	require.ErrorIs(t, err, ErrUserNotFound)

	// 改名
	got.Name = "june"
	require.NoError(t, s.UpdateUser(ctx, got))
	again, err := s.GetUserByPublicID(ctx, 100)
	require.NoError(t, err)
	require.Equal(t, "june", again.Name)

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
}

func TestMemoryStoreRecords(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.CreateUser(ctx, &model.User{PublicID: 1, Name: "a"}))

	// 成员不存在时追加失败
	orphan := &model.WorkoutRecord{UserID: 42, Date: "2026-09-01", DistanceKm: 3.0, IsValid: true}
	require.ErrorIs(t, s.AppendRecord(ctx, orphan), ErrUserNotFound)

	base := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	for i, date := range []string{"2026-09-01", "2026-09-02", "2026-08-31"} {
		rec := &model.WorkoutRecord{
			PublicID:   int64(i + 1),
			UserID:     1,
			Date:       date,
			DistanceKm: 3.0,
			IsValid:    true,
			UploadedAt: base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, s.AppendRecord(ctx, rec))
	}

	month, err := s.ListMonthRecords(ctx, "2026-09")
	require.NoError(t, err)
	require.Len(t, month, 2)

	recent, err := s.ListRecentRecords(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	// 上传时间降序
	require.True(t, recent[0].UploadedAt.After(recent[1].UploadedAt))
}
