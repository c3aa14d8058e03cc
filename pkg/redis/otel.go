package redis

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

var (
	// Redis 相关指标
	redisCommandsTotal  metric.Int64Counter
	redisCommandLatency metric.Float64Histogram
)

// InitRedisMetrics 初始化 Redis 指标
func InitRedisMetrics(meter metric.Meter) error {
	var err error

	redisCommandsTotal, err = meter.Int64Counter(
		"redis.commands.total",
		metric.WithDescription("Total number of Redis commands"),
		metric.WithUnit("{command}"),
	)
	if err != nil {
		return err
	}

	redisCommandLatency, err = meter.Float64Histogram(
		"redis.command.duration",
		metric.WithDescription("Redis command duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25),
	)
	if err != nil {
		return err
	}

	return nil
}

// TracingHook go-redis Hook，给每条命令加 span 和指标
type TracingHook struct {
	serviceName string
	db          int
	tracer      trace.Tracer
}

func NewTracingHook(serviceName string, db int) *TracingHook {
	return &TracingHook{
		serviceName: serviceName,
		db:          db,
		tracer:      otel.Tracer(serviceName + ".redis"),
	}
}

func (th *TracingHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (th *TracingHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		startTime := time.Now()

		ctx, span := th.tracer.Start(ctx, "redis."+cmd.Name(),
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				semconv.DBSystemRedis,
				attribute.Int("db.redis.database_index", th.db),
				attribute.String("db.operation", cmd.Name()),
				attribute.String("service.name", th.serviceName),
			),
		)
		defer span.End()

		err := next(ctx, cmd)
		duration := time.Since(startTime).Seconds()

		status := "success"
		if err != nil && err != redis.Nil {
			status = "error"
			span.SetStatus(codes.Error, err.Error())
			span.RecordError(err)
		} else {
			span.SetStatus(codes.Ok, "Success")
		}

		th.recordMetrics(ctx, cmd.Name(), status, duration)

		return err
	}
}

func (th *TracingHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		startTime := time.Now()

		ctx, span := th.tracer.Start(ctx, "redis.pipeline",
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				semconv.DBSystemRedis,
				attribute.Int("db.redis.database_index", th.db),
				attribute.Int("db.redis.pipeline_length", len(cmds)),
				attribute.String("service.name", th.serviceName),
			),
		)
		defer span.End()

		err := next(ctx, cmds)
		duration := time.Since(startTime).Seconds()

		status := "success"
		if err != nil && err != redis.Nil {
			status = "error"
			span.SetStatus(codes.Error, err.Error())
			span.RecordError(err)
		} else {
			span.SetStatus(codes.Ok, "Success")
		}

		th.recordMetrics(ctx, "pipeline", status, duration)

		return err
	}
}

func (th *TracingHook) recordMetrics(ctx context.Context, operation, status string, duration float64) {
	if redisCommandsTotal == nil || redisCommandLatency == nil {
		return
	}

	labels := []attribute.KeyValue{
		attribute.String("redis.operation", strings.ToLower(operation)),
		attribute.String("redis.status", status),
	}

	redisCommandsTotal.Add(ctx, 1, metric.WithAttributes(labels...))
	redisCommandLatency.Record(ctx, duration, metric.WithAttributes(labels...))
}
