package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Member     MemberRepository
	Facility   FacilityRepository
	Location   LocationRepository
	Attendance AttendanceRepository

	db *gorm.DB
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Member:     NewMemberRepo(db),
		Facility:   NewFacilityRepo(db),
		Location:   NewLocationRepo(db),
		Attendance: NewAttendanceRepo(db),
		db:         db,
	}
}

// Transaction 在单个数据库事务中执行 fn，fn 内通过传入的聚合访问数据
// 扫码路径依赖它保证「读最近记录 + 条件追加」的事务一致性；
// db 为空（单元测试 mock 场景）时直接在当前聚合上执行
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
