package router

import (
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"

	"RunCrew/config"
	"RunCrew/internal/handler"
	"RunCrew/internal/middleware"
)

func Register(h *server.Hertz) {

	h.Use(middleware.RecoverMiddleware())
	h.Use(middleware.CORSMiddleware())
	h.Use(middleware.OpenTelemetryMiddleware())

	// 上传的运动截图直接从本地盘回源
	h.StaticFS(config.Cfg.BlobBaseURL, &app.FS{Root: config.Cfg.BlobDir, PathRewrite: app.NewPathSlashesStripper(1)})

	v1 := h.Group("/v1")

	// 成员相关路由
	users := v1.Group("/users")
	{
		users.GET("", handler.ListUsers)
		users.POST("", handler.CreateUser)
		users.PATCH("/:user_id", handler.UpdateUser)
	}

	// 上传相关路由，识别调用外部 API，单独限流
	submissions := v1.Group("/submissions")
	submissions.Use(middleware.SubmissionRateLimitMiddleware())
	{
		submissions.POST("", handler.CreateSubmission)
		submissions.POST("/analyze", handler.AnalyzeSubmission)
	}

	// 看板相关路由
	v1.GET("/dashboard", middleware.GeneralRateLimitMiddleware(), handler.GetDashboard)
	v1.GET("/records/recent", middleware.GeneralRateLimitMiddleware(), handler.GetRecentRecords)
}
