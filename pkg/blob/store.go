package blob

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"RunCrew/config"
	"RunCrew/pkg/logger"
)

// Store 截图存储接口，返回可经静态路由访问的 URL
type Store interface {
	Save(ctx context.Context, data []byte, ext string) (string, error)
}

var (
	blobStore Store
	blobOnce  sync.Once
	blobErr   error
)

// Init 初始化截图存储
func Init() error {
	blobOnce.Do(func() {
		cfg := config.Cfg

		blobStore, blobErr = NewLocalStore(cfg.BlobDir, cfg.BlobBaseURL)
		if blobErr != nil {
			logger.Logger.Error("Failed to initialize blob store", zap.Error(blobErr))
			return
		}

		logger.Logger.Info("Blob store initialized successfully",
			zap.String("dir", cfg.BlobDir),
			zap.String("base_url", cfg.BlobBaseURL),
		)
	})

	return blobErr
}

func GetStore() Store {
	if blobStore == nil {
		panic("Blob store not initialized, call blob.Init() first")
	}
	return blobStore
}
