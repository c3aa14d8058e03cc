package dto

// ========== User 相关 DTO ==========

// UserData 成员数据，public_id 用字符串承载避免前端 int64 精度丢失
type UserData struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	JoinedAt string `json:"joined_at,omitempty"`
	HasPhone bool   `json:"has_phone"`
}

// CreateUserRequest 创建成员请求
type CreateUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone,omitempty"`
}

// UpdateUserRequest 更新成员请求，仅支持显式改名和改手机号
type UpdateUserRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}
