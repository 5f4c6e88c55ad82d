package dto

// ── 打卡记录 / 统计报表 DTO ──

// AttendanceListRequest 打卡记录列表查询参数
type AttendanceListRequest struct {
	Limit int `form:"limit,default=100" binding:"omitempty,min=1,max=1000"`
}

// AttendanceEventResponse 打卡记录响应（扫码端扁平格式）
type AttendanceEventResponse struct {
	ID           string  `json:"id"`
	MemberID     string  `json:"member_id"`
	FacilityID   string  `json:"facility_id"`
	LocationID   string  `json:"location_id"`
	CheckInTime  string  `json:"check_in_time"`
	CheckOutTime *string `json:"check_out_time,omitempty"`
}

// MemberProgressResponse 会员晋升进度报表
// 无晋升起始日期的会员：months_since_promotion 为 null，sessions 统计全部记录
type MemberProgressResponse struct {
	MemberID             string  `json:"member_id"`
	MemberName           string  `json:"member_name"`
	BeltRank             *string `json:"belt_rank,omitempty"`
	StudentType          string  `json:"student_type"`
	PromotionStartDate   *string `json:"promotion_start_date,omitempty"`
	MonthsSincePromotion *int    `json:"months_since_promotion"`
	Sessions             int64   `json:"sessions"`
}

// MonthlyAttendanceResponse 单月打卡统计
type MonthlyAttendanceResponse struct {
	Month string `json:"month"` // YYYY-MM
	Count int64  `json:"count"`
}

// MemberMonthlyReportResponse 会员按月打卡明细报表
type MemberMonthlyReportResponse struct {
	MemberID   string                      `json:"member_id"`
	MemberName string                      `json:"member_name"`
	Months     []MonthlyAttendanceResponse `json:"months"`
}
