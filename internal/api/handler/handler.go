package handler

import "github.com/IceBJJ/training-attendance-api/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Scan       *ScanHandler
	Member     *MemberHandler
	Facility   *FacilityHandler
	Attendance *AttendanceHandler
	Report     *ReportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Scan:       NewScanHandler(svc.Scan),
		Member:     NewMemberHandler(svc.Member),
		Facility:   NewFacilityHandler(svc.Facility),
		Attendance: NewAttendanceHandler(svc.Attendance),
		Report:     NewReportHandler(svc.Report),
	}
}
