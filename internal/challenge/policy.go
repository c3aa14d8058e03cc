package challenge

import (
	"fmt"
	"math"
)

// Verification 单次上传的校验结果
type Verification struct {
	Accepted        bool
	Reason          string // 拒绝原因码，接受时为空
	Message         string
	DistanceKm      float64 // 截断后的入账距离
	DurationMinutes float64
	PaceMinPerKm    float64 // 由截断后距离算出
}

// TruncateDistance 把距离截断到一位小数，只舍不入，偏向对用户不利的一侧
// 识别结果不可信，非有限值和负数一律按 0 处理
func TruncateDistance(raw float64) float64 {
	if math.IsNaN(raw) || math.IsInf(raw, 0) || raw < 0 {
		return 0
	}
	return math.Floor(raw*10) / 10
}

func sanitizeDuration(raw float64) float64 {
	if math.IsNaN(raw) || math.IsInf(raw, 0) || raw < 0 {
		return 0
	}
	return raw
}

// Evaluate 按固定顺序校验：最低距离 -> 时长可读 -> 配速上限
// 配速恰好等于上限时接受，只有严格超过才拒绝
func (r Rules) Evaluate(rawDistanceKm, rawDurationMinutes float64) Verification {
	distance := TruncateDistance(rawDistanceKm)
	duration := sanitizeDuration(rawDurationMinutes)

	v := Verification{
		DistanceKm:      distance,
		DurationMinutes: duration,
	}

	if distance < r.MinUploadKm {
		v.Reason = ReasonDistanceBelowMinimum
		v.Message = fmt.Sprintf("Distance %.1fkm is below the minimum upload of %.1fkm", distance, r.MinUploadKm)
		return v
	}

	if duration == 0 {
		v.Reason = ReasonDurationUnreadable
		v.Message = "Duration could not be read from the image"
		return v
	}

	pace := duration / distance
	v.PaceMinPerKm = pace

	if pace > r.MaxPaceMinPerKm {
		v.Reason = ReasonPaceTooSlow
		v.Message = fmt.Sprintf("Pace %.1f min/km is slower than the %.1f min/km limit", pace, r.MaxPaceMinPerKm)
		return v
	}

	v.Accepted = true
	return v
}
