package model

import "time"

// Facility 场馆表 — 对应 facilities
type Facility struct {
	FacilityID string    `gorm:"column:id;type:text;primaryKey"      json:"id"`
	Name       string    `gorm:"type:varchar(100);not null"          json:"name"`
	Address    *string   `gorm:"type:varchar(200)"                   json:"address,omitempty"`
	IsActive   bool      `gorm:"column:active;not null;default:true" json:"active"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"  json:"created_at"`
}

// TableName 指定表名
func (Facility) TableName() string { return "facilities" }
