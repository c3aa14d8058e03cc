package errors

func (d Definition) Error() string {
	return d.Message
}

// Definition 表示业务错误码及默认信息。
type Definition struct {
	Code    string
	Message string
}

// 用户模块错误。
var (
	UserNotFound      = Definition{Code: "USER_NOT_FOUND", Message: "User not found"}
	UserAlreadyExists = Definition{Code: "USER_ALREADY_EXISTS", Message: "User already exists"}
	InvalidUserID     = Definition{Code: "INVALID_USER_ID", Message: "Invalid user ID format"}
)

// 上传校验的拒绝原因码。拒绝走 200 结果体而不是错误响应，
// 这三个 Definition 只作为原因码注册表，供 Lookup 查询默认文案。
var (
	DistanceBelowMinimum = Definition{Code: "DISTANCE_BELOW_MINIMUM", Message: "Distance below minimum upload threshold"}
	DurationUnreadable   = Definition{Code: "DURATION_UNREADABLE", Message: "Duration could not be read from the image"}
	PaceTooSlow          = Definition{Code: "PACE_TOO_SLOW", Message: "Pace too slow, walking is not accepted"}
	SubmissionInFlight   = Definition{Code: "SUBMISSION_IN_FLIGHT", Message: "Another submission is already in progress"}
)

// 外部协作方错误。
var (
	AnalysisFailed  = Definition{Code: "ANALYSIS_FAILED", Message: "Image analysis failed"}
	BlobStoreFailed = Definition{Code: "BLOB_STORE_FAILED", Message: "Failed to store workout image"}
)

// 通用错误。
var (
	TooManyRequests = Definition{Code: "TOO_MANY_REQUESTS", Message: "Too many requests, please try again later"}
)

// Lookup 提供错误码查询能力。
var Lookup = map[string]Definition{
	UserNotFound.Code:         UserNotFound,
	UserAlreadyExists.Code:    UserAlreadyExists,
	InvalidUserID.Code:        InvalidUserID,
	DistanceBelowMinimum.Code: DistanceBelowMinimum,
	DurationUnreadable.Code:   DurationUnreadable,
	PaceTooSlow.Code:          PaceTooSlow,
	SubmissionInFlight.Code:   SubmissionInFlight,
	AnalysisFailed.Code:       AnalysisFailed,
	BlobStoreFailed.Code:      BlobStoreFailed,
	TooManyRequests.Code:      TooManyRequests,
}

// Get 根据错误码返回 Definition，若不存在则返回空 Definition。
func Get(code string) Definition {
	if def, ok := Lookup[code]; ok {
		return def
	}
	return Definition{Code: code, Message: "Unexpected error"}
}
