package vision

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"RunCrew/config"
	"RunCrew/pkg/logger"
)

// Extraction 从运动 App 截图里读出的数值
// 识别结果不可信，调用方必须重新校验
type Extraction struct {
	DistanceKm      float64 `json:"distance_km"`
	DurationMinutes float64 `json:"duration_minutes"`
	Notes           string  `json:"notes,omitempty"` // 模型的补充说明或失败原因
}

// Client 图像识别客户端接口
type Client interface {
	// Analyze 识别截图，读不出来的字段置 0，让后续校验自然拒绝
	Analyze(ctx context.Context, imageBytes []byte, mimeType string) (*Extraction, error)
}

var (
	visionClient Client
	visionOnce   sync.Once
	visionErr    error
)

// Init 初始化图像识别客户端
func Init() error {
	visionOnce.Do(func() {
		cfg := config.Cfg

		switch cfg.VisionProvider {
		case "gemini":
			visionClient, visionErr = NewGeminiClient()
		case "mock":
			visionClient = NewMockClient()
		default:
			visionErr = fmt.Errorf("unsupported vision provider: %s", cfg.VisionProvider)
		}

		if visionErr != nil {
			logger.Logger.Error("Failed to initialize vision client", zap.Error(visionErr))
			return
		}

		logger.Logger.Info("Vision client initialized successfully",
			zap.String("provider", cfg.VisionProvider),
		)
	})

	return visionErr
}

func GetClient() Client {
	if visionClient == nil {
		panic("Vision client not initialized, call vision.Init() first")
	}
	return visionClient
}
