package errors

import "errors"

// SkipMessageError 表示消息应当被确认并跳过，而不是回队重试
type SkipMessageError struct {
	Reason string
}

func (e *SkipMessageError) Error() string {
	return e.Reason
}

// IsSkipMessageError 判断是否为跳过类错误
func IsSkipMessageError(err error) bool {
	var skip *SkipMessageError
	return errors.As(err, &skip)
}
