package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/IceBJJ/training-attendance-api/internal/service"
	"github.com/IceBJJ/training-attendance-api/pkg/response"
)

// ReportHandler 考勤统计报表 HTTP 处理器（管理端）
type ReportHandler struct {
	reportSvc service.ReportService
}

// NewReportHandler 创建 ReportHandler
func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// ListProgress 全员晋升进度报表
// GET /api/v1/admin/reports/progress
func (h *ReportHandler) ListProgress(c *gin.Context) {
	rows, err := h.reportSvc.ListProgress(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": rows})
}

// MemberMonthly 单个会员的按月打卡明细
// GET /api/v1/admin/reports/members/:member_id/monthly
func (h *ReportHandler) MemberMonthly(c *gin.Context) {
	memberID := c.Param("member_id")
	if memberID == "" {
		response.BadRequest(c, 10001, "会员ID不能为空")
		return
	}

	report, err := h.reportSvc.MemberMonthly(c.Request.Context(), memberID)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	response.OK(c, report)
}

// ExportProgress 晋升进度报表导出为 Excel
// GET /api/v1/admin/reports/progress/export
func (h *ReportHandler) ExportProgress(c *gin.Context) {
	buf, filename, err := h.reportSvc.ExportProgress(c.Request.Context())
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// handleReportError 统一处理报表模块业务错误
func (h *ReportHandler) handleReportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMemberRecordMissing):
		response.NotFound(c, 11001, "会员不存在")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
