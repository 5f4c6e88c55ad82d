package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/IceBJJ/training-attendance-api/internal/model"
)

// AttendanceRepository 打卡记录数据访问接口（仅追加，无更新/删除）
type AttendanceRepository interface {
	Create(ctx context.Context, event *model.AttendanceEvent) error
	// LastByMemberAtFacility 查询该会员在该场馆的最近一次打卡记录
	// 无记录时返回 (nil, nil)，限流判定按「无历史」处理
	LastByMemberAtFacility(ctx context.Context, memberID, facilityID string) (*model.AttendanceEvent, error)
	// ListRecent 按打卡时间倒序返回最近 limit 条记录
	ListRecent(ctx context.Context, limit int) ([]model.AttendanceEvent, error)
	// CountByMemberSince 统计该会员的打卡次数；since 为空时统计全部
	CountByMemberSince(ctx context.Context, memberID string, since *time.Time) (int64, error)
	// ListByMemberSince 按打卡时间升序返回该会员的记录；since 为空时返回全部
	ListByMemberSince(ctx context.Context, memberID string, since *time.Time) ([]model.AttendanceEvent, error)
}

// attendanceRepo AttendanceRepository 的 GORM 实现
type attendanceRepo struct {
	db *gorm.DB
}

// NewAttendanceRepo 创建 AttendanceRepository 实例
func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

func (r *attendanceRepo) Create(ctx context.Context, event *model.AttendanceEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *attendanceRepo) LastByMemberAtFacility(ctx context.Context, memberID, facilityID string) (*model.AttendanceEvent, error) {
	var event model.AttendanceEvent
	err := r.db.WithContext(ctx).
		Where("member_id = ? AND facility_id = ?", memberID, facilityID).
		Order("check_in_time DESC").
		First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

func (r *attendanceRepo) ListRecent(ctx context.Context, limit int) ([]model.AttendanceEvent, error) {
	var events []model.AttendanceEvent
	err := r.db.WithContext(ctx).
		Order("check_in_time DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

func (r *attendanceRepo) CountByMemberSince(ctx context.Context, memberID string, since *time.Time) (int64, error) {
	var total int64
	db := r.db.WithContext(ctx).
		Model(&model.AttendanceEvent{}).
		Where("member_id = ?", memberID)

	if since != nil {
		db = db.Where("check_in_time >= ?", *since)
	}

	err := db.Count(&total).Error
	return total, err
}

func (r *attendanceRepo) ListByMemberSince(ctx context.Context, memberID string, since *time.Time) ([]model.AttendanceEvent, error) {
	var events []model.AttendanceEvent
	db := r.db.WithContext(ctx).
		Where("member_id = ?", memberID)

	if since != nil {
		db = db.Where("check_in_time >= ?", *since)
	}

	err := db.Order("check_in_time ASC").Find(&events).Error
	return events, err
}
