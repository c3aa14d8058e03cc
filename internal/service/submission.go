package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"RunCrew/config"
	"RunCrew/internal/challenge"
	"RunCrew/internal/model"
	"RunCrew/internal/model/dto"
	"RunCrew/internal/store"
	"RunCrew/pkg/blob"
	pkgerrors "RunCrew/pkg/errors"
	"RunCrew/pkg/logger"
	"RunCrew/pkg/metrics"
	"RunCrew/pkg/snowflake"
	"RunCrew/pkg/vision"
	"RunCrew/storage/database"
)

var (
	submissionService *SubmissionService
	submissionOnce    sync.Once
)

func Submission() *SubmissionService {
	submissionOnce.Do(func() {
		submissionService = NewSubmissionService(
			store.NewGormStore(database.DB()),
			vision.GetClient(),
			blob.GetStore(),
			redisLocker{},
			mqPublisher{},
			rulesFromConfig(),
			ChallengeLocation(),
		)
	})
	return submissionService
}

type SubmissionService struct {
	store     store.Store
	vision    vision.Client
	blob      blob.Store
	locker    Locker
	publisher EventPublisher
	rules     challenge.Rules
	loc       *time.Location

	// 测试时替换时钟
	now func() time.Time
}

func NewSubmissionService(
	st store.Store,
	vc vision.Client,
	bs blob.Store,
	locker Locker,
	publisher EventPublisher,
	rules challenge.Rules,
	loc *time.Location,
) *SubmissionService {
	return &SubmissionService{
		store:     st,
		vision:    vc,
		blob:      bs,
		locker:    locker,
		publisher: publisher,
		rules:     rules,
		loc:       loc,
		now:       time.Now,
	}
}

// Analyze 只识别加校验，什么都不落库，给前端做预检
func (s *SubmissionService) Analyze(ctx context.Context, userID string, image []byte, mimeType string) (*dto.SubmissionResult, error) {
	uid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.GetUserByPublicID(ctx, uid); err != nil {
		return nil, err
	}

	extraction, err := s.analyzeImage(ctx, uid, image, mimeType)
	if err != nil {
		return nil, err
	}

	v := s.rules.Evaluate(extraction.DistanceKm, extraction.DurationMinutes)
	return verificationToResult(v), nil
}

// Submit 完整上传流程：锁 -> 识别 -> 校验 -> 存图 -> 落库 -> 广播
// 校验不通过不是错误，结果里带拒绝原因，换张截图随时重试
func (s *SubmissionService) Submit(ctx context.Context, userID string, image []byte, mimeType string) (*dto.SubmissionResult, error) {
	uid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByPublicID(ctx, uid)
	if err != nil {
		return nil, err
	}

	// 同一成员同一时刻只允许一次上传在跑
	locked, err := s.locker.TryLockSubmission(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire submission lock: %w", err)
	}
	if !locked {
		return nil, pkgerrors.SubmissionInFlight
	}
	defer func() {
		if err := s.locker.UnlockSubmission(ctx, uid); err != nil {
			logger.Logger.Warn("Failed to release submission lock",
				zap.Int64("user_id", uid),
				zap.Error(err),
			)
		}
	}()

	extraction, err := s.analyzeImage(ctx, uid, image, mimeType)
	if err != nil {
		return nil, err
	}

	v := s.rules.Evaluate(extraction.DistanceKm, extraction.DurationMinutes)
	result := verificationToResult(v)
	if !v.Accepted {
		metrics.RecordSubmission("rejected", v.Reason)
		logger.Logger.Info("Submission rejected",
			zap.Int64("user_id", uid),
			zap.String("reason", v.Reason),
			zap.Float64("distance_km", v.DistanceKm),
			zap.Float64("duration_minutes", v.DurationMinutes),
		)
		return result, nil
	}

	imageURL, err := s.blob.Save(ctx, image, extFromMime(mimeType))
	if err != nil {
		logger.Logger.Error("Failed to store workout image",
			zap.Int64("user_id", uid),
			zap.Error(err),
		)
		return nil, pkgerrors.BlobStoreFailed
	}

	recordID, err := snowflake.NextID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate record id: %w", err)
	}

	now := s.now().In(s.loc)
	rec := &model.WorkoutRecord{
		PublicID:     recordID,
		UserID:       uid,
		Date:         now.Format("2006-01-02"),
		DistanceKm:   v.DistanceKm,
		PaceMinPerKm: v.PaceMinPerKm,
		ImageURL:     imageURL,
		IsValid:      true,
		UploadedAt:   now,
	}

	if err := s.store.AppendRecord(ctx, rec); err != nil {
		return nil, err
	}

	metrics.RecordSubmission("accepted", "")
	metrics.RecordAcceptedDistance(rec.DistanceKm)

	logger.Logger.Info("Submission accepted",
		zap.Int64("user_id", uid),
		zap.String("date", rec.Date),
		zap.Float64("distance_km", rec.DistanceKm),
	)

	s.publisher.RecordAccepted(ctx, model.RecordAcceptedMessage{
		MessageID:  fmt.Sprintf("record_accepted_%d", recordID),
		UserID:     uid,
		Date:       rec.Date,
		DistanceKm: rec.DistanceKm,
		OccurredAt: now.Format(time.RFC3339),
	})

	result.Record = toRecordData(*rec, user.Name)
	return result, nil
}

// analyzeImage 调用图像识别并记录耗时，失败统一映射为 ANALYSIS_FAILED
func (s *SubmissionService) analyzeImage(ctx context.Context, uid int64, image []byte, mimeType string) (*vision.Extraction, error) {
	start := s.now()
	extraction, err := s.vision.Analyze(ctx, image, mimeType)
	metrics.RecordAnalysisDuration(config.Cfg.VisionProvider, time.Since(start).Seconds(), err == nil)

	if err != nil {
		logger.Logger.Error("Image analysis failed",
			zap.Int64("user_id", uid),
			zap.Error(err),
		)
		return nil, pkgerrors.AnalysisFailed
	}
	return extraction, nil
}

func verificationToResult(v challenge.Verification) *dto.SubmissionResult {
	return &dto.SubmissionResult{
		Accepted:        v.Accepted,
		Reason:          v.Reason,
		Message:         v.Message,
		DistanceKm:      v.DistanceKm,
		DurationMinutes: v.DurationMinutes,
		PaceMinPerKm:    v.PaceMinPerKm,
	}
}

func toRecordData(rec model.WorkoutRecord, userName string) *dto.RecordData {
	return &dto.RecordData{
		ID:           strconv.FormatInt(rec.PublicID, 10),
		UserID:       strconv.FormatInt(rec.UserID, 10),
		UserName:     userName,
		Date:         rec.Date,
		DistanceKm:   rec.DistanceKm,
		PaceMinPerKm: rec.PaceMinPerKm,
		ImageURL:     rec.ImageURL,
		UploadedAt:   rec.UploadedAt.Format(time.RFC3339),
	}
}

func extFromMime(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
