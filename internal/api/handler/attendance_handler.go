package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IceBJJ/training-attendance-api/internal/dto"
	"github.com/IceBJJ/training-attendance-api/internal/service"
)

// AttendanceHandler 打卡记录 HTTP 处理器（扫码端扁平响应）
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
}

// NewAttendanceHandler 创建 AttendanceHandler
func NewAttendanceHandler(attendanceSvc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc}
}

// ListAttendance 最近打卡记录
// GET /attendance?limit=100
func (h *AttendanceHandler) ListAttendance(c *gin.Context) {
	var req dto.AttendanceListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ScanErrorResponse{Detail: "limit must be between 1 and 1000"})
		return
	}

	events, err := h.attendanceSvc.ListRecent(c.Request.Context(), req.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ScanErrorResponse{Detail: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, events)
}
