package blob

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// MockStore 内存实现，测试用
type MockStore struct {
	mu    sync.Mutex
	Saved [][]byte

	// FailNext 置为 true 时，下一次调用返回 mock 错误并自动复位
	FailNext bool
}

func NewMockStore() *MockStore {
	return &MockStore{}
}

func (m *MockStore) Save(ctx context.Context, data []byte, ext string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailNext {
		m.FailNext = false
		return "", errors.New("mock blob save failure")
	}

	m.Saved = append(m.Saved, data)
	return fmt.Sprintf("/static/mock-%d%s", len(m.Saved), ext), nil
}
