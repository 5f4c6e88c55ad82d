package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/IceBJJ/training-attendance-api/internal/dto"
	"github.com/IceBJJ/training-attendance-api/internal/model"
	"github.com/IceBJJ/training-attendance-api/internal/repository"
)

// AttendanceService 打卡记录查询接口（记录仅由扫码路径写入）
type AttendanceService interface {
	// ListRecent 按打卡时间倒序返回最近 limit 条记录
	ListRecent(ctx context.Context, limit int) ([]dto.AttendanceEventResponse, error)
}

type attendanceService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAttendanceService 创建 AttendanceService 实例
func NewAttendanceService(repo *repository.Repository, logger *zap.Logger) AttendanceService {
	return &attendanceService{repo: repo, logger: logger}
}

func (s *attendanceService) ListRecent(ctx context.Context, limit int) ([]dto.AttendanceEventResponse, error) {
	if limit <= 0 {
		limit = 100
	}

	events, err := s.repo.Attendance.ListRecent(ctx, limit)
	if err != nil {
		s.logger.Error("列出打卡记录失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.AttendanceEventResponse, 0, len(events))
	for i := range events {
		result = append(result, *toAttendanceResponse(&events[i]))
	}

	return result, nil
}

func toAttendanceResponse(e *model.AttendanceEvent) *dto.AttendanceEventResponse {
	var checkOut *string
	if e.CheckOutTime != nil {
		v := e.CheckOutTime.Format(time.RFC3339)
		checkOut = &v
	}

	return &dto.AttendanceEventResponse{
		ID:           e.AttendanceID,
		MemberID:     e.MemberID,
		FacilityID:   e.FacilityID,
		LocationID:   e.LocationID,
		CheckInTime:  e.CheckInTime.Format(time.RFC3339),
		CheckOutTime: checkOut,
	}
}
