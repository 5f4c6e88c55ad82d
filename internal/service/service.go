package service

import (
	"go.uber.org/zap"

	"github.com/IceBJJ/training-attendance-api/config"
	"github.com/IceBJJ/training-attendance-api/internal/repository"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Scan       ScanService
	Member     MemberService
	Facility   FacilityService
	Attendance AttendanceService
	Report     ReportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	logger *zap.Logger,
) *Service {
	return &Service{
		Scan:       NewScanService(&cfg.Checkin, repo, logger),
		Member:     NewMemberService(repo, logger),
		Facility:   NewFacilityService(repo, logger),
		Attendance: NewAttendanceService(repo, logger),
		Report:     NewReportService(repo, logger),
	}
}
