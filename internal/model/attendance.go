package model

import "time"

// AttendanceEvent 打卡记录表 — 对应 attendance
// 仅由扫码成功路径追加，创建后不变更；check_out_time 预留未使用
// 同一 (member_id, facility_id) 按 check_in_time 排序，是限流判定的依据
type AttendanceEvent struct {
	AttendanceID string     `gorm:"column:id;type:text;primaryKey" json:"id"`
	MemberID     string     `gorm:"type:text;not null"             json:"member_id"`
	FacilityID   string     `gorm:"type:text;not null"             json:"facility_id"`
	LocationID   string     `gorm:"type:text;not null"             json:"location_id"`
	CheckInTime  time.Time  `gorm:"type:timestamptz;not null"      json:"check_in_time"`
	CheckOutTime *time.Time `gorm:"type:timestamptz"               json:"check_out_time,omitempty"`

	// 关联
	Member   *Member   `gorm:"foreignKey:MemberID;references:MemberID"     json:"member,omitempty"`
	Facility *Facility `gorm:"foreignKey:FacilityID;references:FacilityID" json:"facility,omitempty"`
}

// TableName 指定表名
func (AttendanceEvent) TableName() string { return "attendance" }
