package model

import "time"

// Location 打卡点表 — 对应 locations
// 每个打卡点归属唯一场馆，qr_value 即物理二维码编码的扫码值（全局唯一）
type Location struct {
	LocationID  string    `gorm:"column:id;type:text;primaryKey"     json:"id"`
	FacilityID  string    `gorm:"type:text;not null"                 json:"facility_id"`
	Name        string    `gorm:"type:varchar(100);not null"         json:"name"`
	Description *string   `gorm:"type:varchar(200)"                  json:"description,omitempty"`
	QRValue     string    `gorm:"column:qr_value;type:text;not null" json:"qr_value"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`

	// 关联
	Facility *Facility `gorm:"foreignKey:FacilityID;references:FacilityID" json:"facility,omitempty"`
}

// TableName 指定表名
func (Location) TableName() string { return "locations" }
