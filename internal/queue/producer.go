package queue

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"RunCrew/internal/model"
	"RunCrew/pkg/logger"
	"RunCrew/pkg/metrics"
	"RunCrew/pkg/snowflake"
	"RunCrew/storage/mq"
)

// PublishPenaltyNotice 发布罚金通知消息（延迟消息）
func PublishPenaltyNotice(msg model.PenaltyNoticeMessage) error {
	if msg.MessageID == "" {
		id, err := snowflake.NextID()
		if err != nil {
			logger.Logger.Error("Failed to generate message ID",
				zap.String("batch_id", msg.BatchID),
				zap.Error(err),
			)
			return fmt.Errorf("failed to generate message ID: %w", err)
		}
		msg.MessageID = fmt.Sprintf("penalty_notice_%d", id)
	}

	delay := time.Duration(msg.DelaySeconds) * time.Second

	err := mq.PublishDelayedMessage(
		mq.ExchangeDelayed,
		mq.RoutingPenaltyNotice,
		delay,
		msg,
	)

	if err != nil {
		logger.Logger.Error("Failed to publish penalty notice message",
			zap.String("batch_id", msg.BatchID),
			zap.Int("user_count", len(msg.Notices)),
			zap.Error(err),
		)
		return err
	}

	metrics.RecordPenaltyNotices(len(msg.Notices))

	logger.Logger.Info("Published penalty notice message",
		zap.String("message_id", msg.MessageID),
		zap.String("batch_id", msg.BatchID),
		zap.String("missed_date", msg.MissedDate),
		zap.Int("user_count", len(msg.Notices)),
		zap.Duration("delay", delay),
	)

	return nil
}

// PublishRecordAccepted 发布记录入账事件，其他实例据此失效看板缓存
func PublishRecordAccepted(msg model.RecordAcceptedMessage) error {
	if msg.MessageID == "" {
		id, err := snowflake.NextID()
		if err != nil {
			return fmt.Errorf("failed to generate message ID: %w", err)
		}
		msg.MessageID = fmt.Sprintf("record_accepted_%d", id)
	}

	err := mq.PublishMessage(
		mq.ExchangeEvents,
		mq.RoutingRecordAccepted,
		msg,
	)

	if err != nil {
		logger.Logger.Error("Failed to publish record accepted event",
			zap.Int64("user_id", msg.UserID),
			zap.String("date", msg.Date),
			zap.Error(err),
		)
		return err
	}

	return nil
}
