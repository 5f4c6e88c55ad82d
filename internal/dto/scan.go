package dto

import "time"

// ── 扫码打卡 DTO ──
// 扫码端接口为兼容既有打卡页面，响应采用扁平 JSON（不走管理端统一封装）

// ScanRequest 扫码打卡请求
type ScanRequest struct {
	QRValue   string     `json:"qr_value"   binding:"required"`
	FirstName string     `json:"first_name" binding:"required"`
	LastName  string     `json:"last_name"  binding:"required"`
	Phone     string     `json:"phone"`
	Timestamp *time.Time `json:"timestamp"` // 缺省取服务器当前时间
}

// ScanResponse 扫码打卡响应
// status = "ok" 时填充 attendance/location 字段；
// status = "ignored" | "too_soon" 时填充 minutes_since_last 与 timestamp
type ScanResponse struct {
	Status           string   `json:"status"`
	Message          string   `json:"message"`
	AttendanceID     string   `json:"attendance_id,omitempty"`
	MemberID         string   `json:"member_id"`
	MemberName       string   `json:"member_name"`
	FacilityID       string   `json:"facility_id"`
	FacilityName     string   `json:"facility_name"`
	LocationID       string   `json:"location_id,omitempty"`
	CheckInTime      string   `json:"check_in_time,omitempty"`
	MinutesSinceLast *float64 `json:"minutes_since_last,omitempty"` // 保留2位小数；指针避免 0.00 被省略
	Timestamp        string   `json:"timestamp,omitempty"`
}

// ScanErrorResponse 扫码客户端错误响应（HTTP 400）
type ScanErrorResponse struct {
	Detail string `json:"detail"`
}
