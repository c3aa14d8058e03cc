package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetrics 业务指标集合
type OTelMetrics struct {
	// 上传相关指标
	SubmissionsTotal   metric.Int64Counter
	AnalysisDuration   metric.Float64Histogram
	AcceptedDistanceKm metric.Float64Counter

	// 罚金通知相关指标
	PenaltyNoticesTotal metric.Int64Counter
	SMSSentTotal        metric.Int64Counter
	SMSSendDuration     metric.Float64Histogram
}

var (
	metrics *OTelMetrics

	meter = otel.Meter("runcrew")
)

// InitMetrics 初始化业务指标
func InitMetrics() error {
	var err error

	metrics = &OTelMetrics{}

	metrics.SubmissionsTotal, err = meter.Int64Counter(
		"submissions_total",
		metric.WithDescription("Total number of workout submissions by outcome"),
		metric.WithUnit("{submission}"),
	)
	if err != nil {
		return err
	}

	metrics.AnalysisDuration, err = meter.Float64Histogram(
		"analysis_duration_seconds",
		metric.WithDescription("Time spent analyzing workout screenshots"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	metrics.AcceptedDistanceKm, err = meter.Float64Counter(
		"accepted_distance_km_total",
		metric.WithDescription("Total accepted workout distance in kilometers"),
		metric.WithUnit("km"),
	)
	if err != nil {
		return err
	}

	metrics.PenaltyNoticesTotal, err = meter.Int64Counter(
		"penalty_notices_total",
		metric.WithDescription("Total number of penalty notices published"),
		metric.WithUnit("{notice}"),
	)
	if err != nil {
		return err
	}

	metrics.SMSSentTotal, err = meter.Int64Counter(
		"sms_sent_total",
		metric.WithDescription("Total number of SMS sent"),
		metric.WithUnit("{sms}"),
	)
	if err != nil {
		return err
	}

	metrics.SMSSendDuration, err = meter.Float64Histogram(
		"sms_send_duration_seconds",
		metric.WithDescription("Time spent sending SMS"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	return nil
}

// GetMetrics 返回全局指标实例，未初始化时为 nil
func GetMetrics() *OTelMetrics {
	return metrics
}

// RecordSubmission 记录一次上传的结果，reason 为拒绝原因码，接受时为 accepted
func RecordSubmission(outcome, reason string) {
	m := GetMetrics()
	if m == nil {
		return
	}
	m.SubmissionsTotal.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
		attribute.String("reason", reason),
	))
}

// RecordAnalysisDuration 记录图像识别耗时
func RecordAnalysisDuration(provider string, seconds float64, success bool) {
	m := GetMetrics()
	if m == nil {
		return
	}
	status := "success"
	if !success {
		status = "error"
	}
	m.AnalysisDuration.Record(context.Background(), seconds, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("status", status),
	))
}

// RecordAcceptedDistance 累计入账距离
func RecordAcceptedDistance(km float64) {
	m := GetMetrics()
	if m == nil {
		return
	}
	m.AcceptedDistanceKm.Add(context.Background(), km)
}

// RecordPenaltyNotices 记录罚金通知投放
func RecordPenaltyNotices(count int) {
	m := GetMetrics()
	if m == nil {
		return
	}
	m.PenaltyNoticesTotal.Add(context.Background(), int64(count))
}

// RecordSMSSent 记录短信发送
func RecordSMSSent(provider string, count int, seconds float64, success bool) {
	m := GetMetrics()
	if m == nil {
		return
	}
	status := "success"
	if !success {
		status = "error"
	}
	attrs := metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("status", status),
	)
	m.SMSSentTotal.Add(context.Background(), int64(count), attrs)
	m.SMSSendDuration.Record(context.Background(), seconds, attrs)
}
