package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"RunCrew/internal/model/dto"
	"RunCrew/internal/service"
	"RunCrew/pkg/response"
)

// ListUsers 查询全部成员
// GET /v1/users
func ListUsers(ctx context.Context, c *app.RequestContext) {
	users, err := service.User().ListUsers(ctx)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, users)
}

// CreateUser 注册新成员
// POST /v1/users
func CreateUser(ctx context.Context, c *app.RequestContext) {
	var req dto.CreateUserRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	user, err := service.User().CreateUser(ctx, req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, user)
}

// UpdateUser 修改成员的名字或手机号
// PATCH /v1/users/:user_id
func UpdateUser(ctx context.Context, c *app.RequestContext) {
	userID := c.Param("user_id")

	var req dto.UpdateUserRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	user, err := service.User().UpdateUser(ctx, userID, req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, user)
}
