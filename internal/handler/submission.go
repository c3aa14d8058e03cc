package handler

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/cloudwego/hertz/pkg/app"

	"RunCrew/internal/service"
	"RunCrew/pkg/response"
)

// 运动 app 截图不会超过这个大小
const maxImageBytes = 10 << 20

// AnalyzeSubmission 只识别不落库，给前端做上传前预检
// POST /v1/submissions/analyze
func AnalyzeSubmission(ctx context.Context, c *app.RequestContext) {
	userID, image, mimeType, err := readSubmissionForm(c)
	if err != nil {
		response.BindError(ctx, c, err)
		return
	}

	result, err := service.Submission().Analyze(ctx, userID, image, mimeType)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// CreateSubmission 上传运动截图，校验通过即入账
// POST /v1/submissions
func CreateSubmission(ctx context.Context, c *app.RequestContext) {
	userID, image, mimeType, err := readSubmissionForm(c)
	if err != nil {
		response.BindError(ctx, c, err)
		return
	}

	result, err := service.Submission().Submit(ctx, userID, image, mimeType)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// readSubmissionForm 读取 multipart 表单里的 user_id 和截图
func readSubmissionForm(c *app.RequestContext) (userID string, image []byte, mimeType string, err error) {
	userID = c.PostForm("user_id")
	if userID == "" {
		return "", nil, "", fmt.Errorf("user_id is required")
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return "", nil, "", fmt.Errorf("image file is required: %w", err)
	}

	if fileHeader.Size > maxImageBytes {
		return "", nil, "", fmt.Errorf("image exceeds %d bytes", maxImageBytes)
	}

	image, err = readFileHeader(fileHeader)
	if err != nil {
		return "", nil, "", fmt.Errorf("failed to read image: %w", err)
	}

	mimeType = fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	return userID, image, mimeType, nil
}

func readFileHeader(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
