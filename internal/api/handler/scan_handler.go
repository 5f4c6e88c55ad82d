package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IceBJJ/training-attendance-api/internal/dto"
	"github.com/IceBJJ/training-attendance-api/internal/service"
)

// ScanHandler 扫码打卡 HTTP 处理器
// 扫码端为既有打卡页面服务，响应采用扁平 JSON、错误用 {detail: ...}，
// 与管理端的统一封装不同
type ScanHandler struct {
	scanSvc service.ScanService
}

// NewScanHandler 创建 ScanHandler
func NewScanHandler(scanSvc service.ScanService) *ScanHandler {
	return &ScanHandler{scanSvc: scanSvc}
}

// Scan 扫码打卡
// POST /scan
func (h *ScanHandler) Scan(c *gin.Context) {
	var req dto.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ScanErrorResponse{Detail: "Invalid request payload: qr_value, first_name and last_name are required."})
		return
	}

	result, err := h.scanSvc.Scan(c.Request.Context(), &req)
	if err != nil {
		h.handleScanError(c, err)
		return
	}

	// ignored / too_soon 是有效判定而非错误，同样返回 200
	c.JSON(http.StatusOK, result)
}

// handleScanError 统一处理扫码业务错误
// 三类校验失败均为客户端错误（400），仅存储失败返回 500
func (h *ScanHandler) handleScanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMemberNotFound),
		errors.Is(err, service.ErrMemberInactive),
		errors.Is(err, service.ErrCodeNotRecognized):
		c.JSON(http.StatusBadRequest, dto.ScanErrorResponse{Detail: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, dto.ScanErrorResponse{Detail: "Internal server error"})
	}
}
