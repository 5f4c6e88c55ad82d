package model

import "time"

// 学员类型枚举
const (
	StudentTypeAdult = "adult"
	StudentTypeYouth = "youth"
)

// Member 会员表 — 对应 members
// 身份键为 (first_name, last_name, phone)，姓名比较不区分大小写
type Member struct {
	MemberID           string     `gorm:"column:id;type:text;primaryKey"        json:"id"`
	FirstName          string     `gorm:"type:varchar(100);not null"            json:"first_name"`
	LastName           string     `gorm:"type:varchar(100);not null"            json:"last_name"`
	Phone              *string    `gorm:"type:varchar(20)"                      json:"phone,omitempty"` // 规范化后仅含数字，最多10位
	Address            *string    `gorm:"type:varchar(200)"                     json:"address,omitempty"`
	BeltRank           *string    `gorm:"type:varchar(50)"                      json:"belt_rank,omitempty"`
	PromotionStartDate *time.Time `gorm:"type:timestamptz"                      json:"promotion_start_date,omitempty"`
	StudentType        string     `gorm:"type:varchar(10);not null"             json:"student_type"` // adult | youth
	IsActive           bool       `gorm:"column:active;not null;default:true"   json:"active"`
	CreatedAt          time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"    json:"created_at"`
}

// TableName 指定表名
func (Member) TableName() string { return "members" }

// FullName 返回 "名 姓" 形式的展示名
func (m *Member) FullName() string {
	return m.FirstName + " " + m.LastName
}
