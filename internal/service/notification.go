package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"RunCrew/config"
	"RunCrew/internal/model"
	"RunCrew/pkg/logger"
	"RunCrew/pkg/metrics"
	"RunCrew/pkg/sms"
)

var (
	notificationService *NotificationService
	notificationOnce    sync.Once
)

func Notification() *NotificationService {
	notificationOnce.Do(func() {
		notificationService = NewNotificationService(
			sms.GetClient(),
			config.Cfg.SMSSignName,
			config.Cfg.SMSTemplateCode,
		)
	})
	return notificationService
}

type NotificationService struct {
	sms          sms.Client
	signName     string
	templateCode string
}

func NewNotificationService(client sms.Client, signName, templateCode string) *NotificationService {
	return &NotificationService{
		sms:          client,
		signName:     signName,
		templateCode: templateCode,
	}
}

// SendPenaltyNotices 把一批罚金通知发出去，没留手机号的成员跳过
func (s *NotificationService) SendPenaltyNotices(ctx context.Context, msg model.PenaltyNoticeMessage) error {
	phones := make([]string, 0, len(msg.Notices))
	params := make([]string, 0, len(msg.Notices))

	for _, n := range msg.Notices {
		if n.Phone == "" {
			logger.Logger.Info("Skipping penalty notice, no phone on file",
				zap.Int64("user_id", n.UserID),
				zap.String("name", n.Name),
			)
			continue
		}

		param, err := json.Marshal(map[string]string{
			"name":        n.Name,
			"missed_days": fmt.Sprintf("%d", n.MissedDays),
			"amount":      fmt.Sprintf("%d", n.TotalPenalty),
		})
		if err != nil {
			return fmt.Errorf("failed to marshal template param: %w", err)
		}

		phones = append(phones, n.Phone)
		params = append(params, string(param))
	}

	if len(phones) == 0 {
		logger.Logger.Info("Penalty notice batch had no reachable users",
			zap.String("batch_id", msg.BatchID),
			zap.String("missed_date", msg.MissedDate),
		)
		return nil
	}

	start := time.Now()
	var err error
	if len(phones) == 1 {
		err = s.sms.SendSingle(ctx, phones[0], s.signName, s.templateCode, params[0])
	} else {
		err = s.sms.SendBatch(ctx, phones, s.signName, s.templateCode, params)
	}
	metrics.RecordSMSSent(config.Cfg.SMSProvider, len(phones), time.Since(start).Seconds(), err == nil)
	if err != nil {
		return fmt.Errorf("failed to send penalty notices: %w", err)
	}

	logger.Logger.Info("Penalty notices sent",
		zap.String("batch_id", msg.BatchID),
		zap.String("missed_date", msg.MissedDate),
		zap.Int("count", len(phones)),
	)

	return nil
}
