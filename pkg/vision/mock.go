package vision

import (
	"context"
	"errors"
	"sync"
)

// MockClient 可配置的识别客户端 mock，实现 Client 接口
type MockClient struct {
	mu    sync.Mutex
	calls int

	// Result 下一次调用返回的识别结果
	Result Extraction

	// FailNext 置为 true 时，下一次调用返回 mock 错误并自动复位
	FailNext bool
}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Analyze(ctx context.Context, imageBytes []byte, mimeType string) (*Extraction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++

	if m.FailNext {
		m.FailNext = false
		return nil, errors.New("mock vision analyze failure")
	}

	out := m.Result
	sanitize(&out)
	return &out, nil
}

// CallCount 已调用的次数
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
