package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"RunCrew/internal/challenge"
	"RunCrew/internal/model"
	"RunCrew/internal/store"
	"RunCrew/pkg/blob"
	pkgerrors "RunCrew/pkg/errors"
	"RunCrew/pkg/vision"
)

type fakeLocker struct {
	deny    bool
	unlocks int
}

func (f *fakeLocker) TryLockSubmission(ctx context.Context, userID int64) (bool, error) {
	return !f.deny, nil
}

func (f *fakeLocker) UnlockSubmission(ctx context.Context, userID int64) error {
	f.unlocks++
	return nil
}

type fakePublisher struct {
	events []model.RecordAcceptedMessage
}

func (f *fakePublisher) RecordAccepted(ctx context.Context, msg model.RecordAcceptedMessage) {
	f.events = append(f.events, msg)
}

func testRules() challenge.Rules {
	return challenge.Rules{
		DailyGoalKm:         3.0,
		MinUploadKm:         1.0,
		MaxPaceMinPerKm:     20.0,
		PenaltyPerMissedDay: 20000,
	}
}

func challengeTZ(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)
	return loc
}

func seedUser(t *testing.T, st *store.MemoryStore, publicID int64, name string, joinedAt time.Time) {
	t.Helper()
	u := &model.User{PublicID: publicID, Name: name, JoinedAt: &joinedAt}
	require.NoError(t, st.CreateUser(context.Background(), u))
}

type submissionFixture struct {
	svc       *SubmissionService
	store     *store.MemoryStore
	vision    *vision.MockClient
	blob      *blob.MockStore
	locker    *fakeLocker
	publisher *fakePublisher
	now       time.Time
}

func newSubmissionFixture(t *testing.T) *submissionFixture {
	t.Helper()

	loc := challengeTZ(t)
	now := time.Date(2025, 11, 14, 21, 0, 0, 0, loc)

	st := store.NewMemoryStore()
	seedUser(t, st, 1001, "jiho", now.AddDate(0, 0, -10))

	f := &submissionFixture{
		store:     st,
		vision:    vision.NewMockClient(),
		blob:      blob.NewMockStore(),
		locker:    &fakeLocker{},
		publisher: &fakePublisher{},
		now:       now,
	}

	f.svc = NewSubmissionService(st, f.vision, f.blob, f.locker, f.publisher, testRules(), loc)
	f.svc.now = func() time.Time { return now }
	return f
}

func TestSubmitAccepted(t *testing.T) {
	f := newSubmissionFixture(t)
	f.vision.Result = vision.Extraction{DistanceKm: 5.27, DurationMinutes: 30}

	result, err := f.svc.Submit(context.Background(), "1001", []byte("img"), "image/png")
	require.NoError(t, err)

	require.True(t, result.Accepted)
	require.Empty(t, result.Reason)
	require.InDelta(t, 5.2, result.DistanceKm, 1e-9) // 5.27 截断，不是四舍五入
	require.InDelta(t, 30.0/5.2, result.PaceMinPerKm, 1e-9)

	require.NotNil(t, result.Record)
	require.Equal(t, "1001", result.Record.UserID)
	require.Equal(t, "jiho", result.Record.UserName)
	require.Equal(t, "2025-11-14", result.Record.Date)
	require.Equal(t, "/static/mock-1.png", result.Record.ImageURL)

	records, err := f.store.ListMonthRecords(context.Background(), "2025-11")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, int64(1001), records[0].UserID)
	require.True(t, records[0].IsValid)

	require.Len(t, f.publisher.events, 1)
	require.Equal(t, "2025-11-14", f.publisher.events[0].Date)
	require.Equal(t, int64(1001), f.publisher.events[0].UserID)

	require.Equal(t, 1, f.locker.unlocks)
}

func TestSubmitRejections(t *testing.T) {
	tests := []struct {
		name       string
		extraction vision.Extraction
		wantReason string
	}{
		{
			name:       "distance below minimum after truncation",
			extraction: vision.Extraction{DistanceKm: 0.95, DurationMinutes: 10},
			wantReason: challenge.ReasonDistanceBelowMinimum,
		},
		{
			name:       "duration unreadable",
			extraction: vision.Extraction{DistanceKm: 5.0, DurationMinutes: 0},
			wantReason: challenge.ReasonDurationUnreadable,
		},
		{
			name:       "pace slower than limit",
			extraction: vision.Extraction{DistanceKm: 2.05, DurationMinutes: 41},
			wantReason: challenge.ReasonPaceTooSlow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSubmissionFixture(t)
			f.vision.Result = tt.extraction

			result, err := f.svc.Submit(context.Background(), "1001", []byte("img"), "image/jpeg")
			require.NoError(t, err) // 拒绝是业务结果，不是错误

			require.False(t, result.Accepted)
			require.Equal(t, tt.wantReason, result.Reason)
			require.Nil(t, result.Record)

			require.Empty(t, f.blob.Saved)
			require.Empty(t, f.publisher.events)

			records, err := f.store.ListMonthRecords(context.Background(), "2025-11")
			require.NoError(t, err)
			require.Empty(t, records)
		})
	}
}

func TestSubmitPaceAtLimitAccepted(t *testing.T) {
	f := newSubmissionFixture(t)
	// 40 分钟 / 2.0km = 正好 20.0 min/km，恰好在上限应当接受
	f.vision.Result = vision.Extraction{DistanceKm: 2.0, DurationMinutes: 40}

	result, err := f.svc.Submit(context.Background(), "1001", []byte("img"), "image/jpeg")
	require.NoError(t, err)
	require.True(t, result.Accepted)
	require.InDelta(t, 20.0, result.PaceMinPerKm, 1e-9)
}

func TestSubmitLockContention(t *testing.T) {
	f := newSubmissionFixture(t)
	f.locker.deny = true

	_, err := f.svc.Submit(context.Background(), "1001", []byte("img"), "image/jpeg")
	require.ErrorIs(t, err, pkgerrors.SubmissionInFlight)
	require.Equal(t, 0, f.locker.unlocks)
	require.Equal(t, 0, f.vision.CallCount())
}

func TestSubmitVisionFailure(t *testing.T) {
	f := newSubmissionFixture(t)
	f.vision.FailNext = true

	_, err := f.svc.Submit(context.Background(), "1001", []byte("img"), "image/jpeg")
	require.ErrorIs(t, err, pkgerrors.AnalysisFailed)
	require.Equal(t, 1, f.locker.unlocks)
	require.Empty(t, f.blob.Saved)
}

func TestSubmitBlobFailure(t *testing.T) {
	f := newSubmissionFixture(t)
	f.vision.Result = vision.Extraction{DistanceKm: 5.0, DurationMinutes: 30}
	f.blob.FailNext = true

	_, err := f.svc.Submit(context.Background(), "1001", []byte("img"), "image/jpeg")
	require.ErrorIs(t, err, pkgerrors.BlobStoreFailed)

	records, err := f.store.ListMonthRecords(context.Background(), "2025-11")
	require.NoError(t, err)
	require.Empty(t, records)
	require.Empty(t, f.publisher.events)
}

func TestSubmitUnknownUser(t *testing.T) {
	f := newSubmissionFixture(t)

	_, err := f.svc.Submit(context.Background(), "9999", []byte("img"), "image/jpeg")
	require.ErrorIs(t, err, pkgerrors.UserNotFound)
	require.Equal(t, 0, f.vision.CallCount())
}

func TestSubmitInvalidUserID(t *testing.T) {
	f := newSubmissionFixture(t)

	_, err := f.svc.Submit(context.Background(), "abc", []byte("img"), "image/jpeg")
	require.ErrorIs(t, err, pkgerrors.InvalidUserID)
}

func TestAnalyzeDoesNotPersist(t *testing.T) {
	f := newSubmissionFixture(t)
	f.vision.Result = vision.Extraction{DistanceKm: 6.3, DurationMinutes: 35}

	result, err := f.svc.Analyze(context.Background(), "1001", []byte("img"), "image/jpeg")
	require.NoError(t, err)
	require.True(t, result.Accepted)
	require.Nil(t, result.Record)

	require.Empty(t, f.blob.Saved)
	require.Empty(t, f.publisher.events)

	records, err := f.store.ListMonthRecords(context.Background(), "2025-11")
	require.NoError(t, err)
	require.Empty(t, records)
}
