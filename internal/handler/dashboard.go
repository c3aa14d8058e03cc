package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"RunCrew/internal/model/dto"
	"RunCrew/internal/service"
	"RunCrew/pkg/response"
)

// GetDashboard 查询团队看板快照
// GET /v1/dashboard
func GetDashboard(ctx context.Context, c *app.RequestContext) {
	data, err := service.Dashboard().GetDashboard(ctx)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, data)
}

// GetRecentRecords 查询最近入账的运动记录
// GET /v1/records/recent
func GetRecentRecords(ctx context.Context, c *app.RequestContext) {
	var query dto.RecentRecordsQuery
	if err := c.Bind(&query); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	records, err := service.Dashboard().RecentRecords(ctx, query.Limit)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, records)
}
