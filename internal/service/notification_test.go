package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"RunCrew/internal/model"
	"RunCrew/pkg/sms"
)

func noticeMessage(notices ...model.PenaltyUserNotice) model.PenaltyNoticeMessage {
	return model.PenaltyNoticeMessage{
		MessageID:  "penalty_notice_test",
		BatchID:    "batch_test",
		MissedDate: "2025-11-13",
		Notices:    notices,
	}
}

func TestSendPenaltyNoticeSingle(t *testing.T) {
	mock := sms.NewMockClient()
	svc := NewNotificationService(mock, "RunCrew", "SMS_10001")

	msg := noticeMessage(model.PenaltyUserNotice{
		UserID:       101,
		Name:         "minji",
		Phone:        "01012345678",
		MissedDays:   2,
		TotalPenalty: 40000,
	})

	require.NoError(t, svc.SendPenaltyNotices(context.Background(), msg))
	require.Equal(t, 1, mock.CallCount())

	call := mock.Calls[0]
	require.Equal(t, "01012345678", call.Phone)
	require.Equal(t, "RunCrew", call.SignName)
	require.Equal(t, "SMS_10001", call.TemplateCode)

	var param map[string]string
	require.NoError(t, json.Unmarshal([]byte(call.TemplateParam), &param))
	require.Equal(t, "minji", param["name"])
	require.Equal(t, "2", param["missed_days"])
	require.Equal(t, "40000", param["amount"])
}

func TestSendPenaltyNoticeBatch(t *testing.T) {
	mock := sms.NewMockClient()
	svc := NewNotificationService(mock, "RunCrew", "SMS_10001")

	msg := noticeMessage(
		model.PenaltyUserNotice{UserID: 101, Name: "minji", Phone: "01011111111", MissedDays: 1, TotalPenalty: 20000},
		model.PenaltyUserNotice{UserID: 102, Name: "hoon", Phone: "01022222222", MissedDays: 3, TotalPenalty: 60000},
	)

	require.NoError(t, svc.SendPenaltyNotices(context.Background(), msg))
	require.Equal(t, 2, mock.CallCount())
	require.Equal(t, "01011111111", mock.Calls[0].Phone)
	require.Equal(t, "01022222222", mock.Calls[1].Phone)
}

func TestSendPenaltyNoticeSkipsUsersWithoutPhone(t *testing.T) {
	mock := sms.NewMockClient()
	svc := NewNotificationService(mock, "RunCrew", "SMS_10001")

	msg := noticeMessage(
		model.PenaltyUserNotice{UserID: 101, Name: "minji", Phone: "", MissedDays: 1, TotalPenalty: 20000},
		model.PenaltyUserNotice{UserID: 102, Name: "hoon", Phone: "01022222222", MissedDays: 1, TotalPenalty: 20000},
	)

	require.NoError(t, svc.SendPenaltyNotices(context.Background(), msg))
	require.Equal(t, 1, mock.CallCount())
	require.Equal(t, "01022222222", mock.Calls[0].Phone)
}

func TestSendPenaltyNoticeAllSkipped(t *testing.T) {
	mock := sms.NewMockClient()
	svc := NewNotificationService(mock, "RunCrew", "SMS_10001")

	msg := noticeMessage(
		model.PenaltyUserNotice{UserID: 101, Name: "minji", Phone: "", MissedDays: 1, TotalPenalty: 20000},
	)

	// 没有可达成员时静默成功，不调用短信网关
	require.NoError(t, svc.SendPenaltyNotices(context.Background(), msg))
	require.Equal(t, 0, mock.CallCount())
}

func TestSendPenaltyNoticeGatewayFailure(t *testing.T) {
	mock := sms.NewMockClient()
	mock.FailNext = true
	svc := NewNotificationService(mock, "RunCrew", "SMS_10001")

	msg := noticeMessage(model.PenaltyUserNotice{
		UserID: 101, Name: "minji", Phone: "01011111111", MissedDays: 1, TotalPenalty: 20000,
	})

	require.Error(t, svc.SendPenaltyNotices(context.Background(), msg))
}
