package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"RunCrew/internal/cache"
	"RunCrew/internal/model"
	"RunCrew/pkg/errors"
	"RunCrew/pkg/logger"
	"RunCrew/storage/mq"
)

// PenaltyNotifier worker 启动时注入，避免 queue 反向依赖 service
type PenaltyNotifier interface {
	SendPenaltyNotices(ctx context.Context, msg model.PenaltyNoticeMessage) error
}

var penaltyNotifier PenaltyNotifier

// SetPenaltyNotifier 设置罚金通知服务（在 worker 启动时调用）
func SetPenaltyNotifier(n PenaltyNotifier) {
	penaltyNotifier = n
}

// StartPenaltyNoticeConsumer 启动罚金通知消费者
func StartPenaltyNoticeConsumer(ctx context.Context) error {
	handler := func(ctx context.Context, body []byte) error {
		var msg model.PenaltyNoticeMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("failed to unmarshal penalty notice message: %w", err)
		}

		// 【幂等性检查】使用 SETNX 原子性地检查并标记消息正在处理
		processed, err := cache.TryMarkMessageProcessing(ctx, msg.MessageID, 24*time.Hour)
		if err != nil {
			logger.Logger.Warn("Failed to check message processed status",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
			// 检查失败时继续处理，宁可重复也不丢消息
		} else if !processed {
			logger.Logger.Info("Message already processed or being processed, skipping",
				zap.String("message_id", msg.MessageID),
				zap.String("batch_id", msg.BatchID),
			)
			return &errors.SkipMessageError{Reason: fmt.Sprintf("Message %s already processed", msg.MessageID)}
		}

		logger.Logger.Info("Processing penalty notice batch",
			zap.String("message_id", msg.MessageID),
			zap.String("batch_id", msg.BatchID),
			zap.String("missed_date", msg.MissedDate),
			zap.Int("user_count", len(msg.Notices)),
		)

		if penaltyNotifier == nil {
			logger.Logger.Error("PenaltyNotifier not initialized",
				zap.String("message_id", msg.MessageID),
			)
			cache.UnmarkMessageProcessing(ctx, msg.MessageID)
			return fmt.Errorf("penalty notifier not initialized")
		}

		if err := penaltyNotifier.SendPenaltyNotices(ctx, msg); err != nil {
			// 处理失败，取消标记，允许重试
			cache.UnmarkMessageProcessing(ctx, msg.MessageID)
			return fmt.Errorf("failed to send penalty notices: %w", err)
		}

		// 【幂等性标记】处理完成后标记消息已处理（延长 TTL）
		if err := cache.MarkMessageProcessed(ctx, msg.MessageID, 48*time.Hour); err != nil {
			logger.Logger.Warn("Failed to mark message as processed",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
		}

		return nil
	}

	return mq.Consume(mq.ConsumeOptions{
		Queue:         mq.QueuePenaltyNotice,
		ConsumerTag:   "penalty_notice_consumer",
		PrefetchCount: 10,
		Handler:       handler,
	})
}

// StartRecordAcceptedConsumer 启动记录入账事件消费者
// 收到事件就失效对应日期的看板缓存，让下一次读重新聚合
func StartRecordAcceptedConsumer(ctx context.Context) error {
	handler := func(ctx context.Context, body []byte) error {
		var msg model.RecordAcceptedMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("failed to unmarshal record accepted message: %w", err)
		}

		logger.Logger.Info("Record accepted event received",
			zap.Int64("user_id", msg.UserID),
			zap.String("date", msg.Date),
		)

		cache.InvalidateDashboard(ctx, msg.Date)
		return nil
	}

	return mq.Consume(mq.ConsumeOptions{
		Queue:         mq.QueueRecordAccepted,
		ConsumerTag:   "record_accepted_consumer",
		PrefetchCount: 20,
		Handler:       handler,
	})
}

// StartAllConsumers 启动所有消费者（在 worker 启动时调用）
func StartAllConsumers(ctx context.Context) {
	var wg sync.WaitGroup

	consumers := []struct {
		name     string
		consumer func(context.Context) error
	}{
		{"penalty_notice", StartPenaltyNoticeConsumer},
		{"record_accepted", StartRecordAcceptedConsumer},
	}

	for _, c := range consumers {
		wg.Add(1)
		go func(name string, consumer func(context.Context) error) {
			defer wg.Done()

			logger.Logger.Info("Starting consumer",
				zap.String("consumer_name", name),
			)

			if err := consumer(ctx); err != nil {
				logger.Logger.Error("Consumer exited with error",
					zap.String("consumer_name", name),
					zap.Error(err),
				)
			}
		}(c.name, c.consumer)
	}

	wg.Wait()
}
