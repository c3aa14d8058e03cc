package response

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"RunCrew/pkg/errors"
)

func TestErrorToHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"user not found", errors.UserNotFound, http.StatusNotFound},
		{"duplicate user", errors.UserAlreadyExists, http.StatusConflict},
		{"submission in flight", errors.SubmissionInFlight, http.StatusConflict},
		{"invalid user id", errors.InvalidUserID, http.StatusBadRequest},
		{"analysis failed", errors.AnalysisFailed, http.StatusBadGateway},
		{"blob store failed", errors.BlobStoreFailed, http.StatusBadGateway},
		{"rate limited", errors.TooManyRequests, http.StatusTooManyRequests},
		{"plain error", fmt.Errorf("boom"), http.StatusInternalServerError},
		// 拒绝原因码从不作为错误返回，没有专属状态码映射
		{"rejection reason code", errors.PaceTooSlow, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, errorToHTTPStatus(tt.err))
		})
	}
}
