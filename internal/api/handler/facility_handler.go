package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IceBJJ/training-attendance-api/internal/dto"
	"github.com/IceBJJ/training-attendance-api/internal/service"
	"github.com/IceBJJ/training-attendance-api/pkg/response"
)

// FacilityHandler 场馆与打卡点 HTTP 处理器
// 公开列表接口面向扫码端（扁平数组），增改为管理端接口（统一封装）
type FacilityHandler struct {
	facilitySvc service.FacilityService
}

// NewFacilityHandler 创建 FacilityHandler
func NewFacilityHandler(facilitySvc service.FacilityService) *FacilityHandler {
	return &FacilityHandler{facilitySvc: facilitySvc}
}

// ListFacilities 营业中场馆列表
// GET /facilities
func (h *FacilityHandler) ListFacilities(c *gin.Context) {
	facilities, err := h.facilitySvc.ListFacilities(c.Request.Context(), false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ScanErrorResponse{Detail: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, facilities)
}

// ListLocations 打卡点列表
// GET /locations?facility_id=
func (h *FacilityHandler) ListLocations(c *gin.Context) {
	locations, err := h.facilitySvc.ListLocations(c.Request.Context(), c.Query("facility_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ScanErrorResponse{Detail: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, locations)
}

// CreateFacility 创建场馆
// POST /api/v1/admin/facilities
func (h *FacilityHandler) CreateFacility(c *gin.Context) {
	var req dto.CreateFacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	facility, err := h.facilitySvc.CreateFacility(c.Request.Context(), &req)
	if err != nil {
		h.handleFacilityError(c, err)
		return
	}

	response.Created(c, facility)
}

// GetFacility 获取场馆详情（含停业场馆）
// GET /api/v1/admin/facilities/:id
func (h *FacilityHandler) GetFacility(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "场馆ID不能为空")
		return
	}

	facility, err := h.facilitySvc.GetFacility(c.Request.Context(), id)
	if err != nil {
		h.handleFacilityError(c, err)
		return
	}

	response.OK(c, facility)
}

// ListAllFacilities 全部场馆列表（含停业）
// GET /api/v1/admin/facilities
func (h *FacilityHandler) ListAllFacilities(c *gin.Context) {
	facilities, err := h.facilitySvc.ListFacilities(c.Request.Context(), true)
	if err != nil {
		h.handleFacilityError(c, err)
		return
	}

	response.OK(c, gin.H{"list": facilities})
}

// UpdateFacility 更新场馆
// PUT /api/v1/admin/facilities/:id
func (h *FacilityHandler) UpdateFacility(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "场馆ID不能为空")
		return
	}

	var req dto.UpdateFacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	facility, err := h.facilitySvc.UpdateFacility(c.Request.Context(), id, &req)
	if err != nil {
		h.handleFacilityError(c, err)
		return
	}

	response.OK(c, facility)
}

// CreateLocation 创建打卡点
// POST /api/v1/admin/locations
func (h *FacilityHandler) CreateLocation(c *gin.Context) {
	var req dto.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	loc, err := h.facilitySvc.CreateLocation(c.Request.Context(), &req)
	if err != nil {
		h.handleFacilityError(c, err)
		return
	}

	response.Created(c, loc)
}

// UpdateLocation 更新打卡点
// PUT /api/v1/admin/locations/:id
func (h *FacilityHandler) UpdateLocation(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "打卡点ID不能为空")
		return
	}

	var req dto.UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	loc, err := h.facilitySvc.UpdateLocation(c.Request.Context(), id, &req)
	if err != nil {
		h.handleFacilityError(c, err)
		return
	}

	response.OK(c, loc)
}

// handleFacilityError 统一处理场馆模块业务错误
func (h *FacilityHandler) handleFacilityError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrFacilityNotFound):
		response.NotFound(c, 12001, "场馆不存在")
	case errors.Is(err, service.ErrLocationNotFound):
		response.NotFound(c, 12002, "打卡点不存在")
	case errors.Is(err, service.ErrQRValueTaken):
		response.BadRequest(c, 12003, "扫码值已被其他打卡点占用")
	default:
		response.InternalError(c)
	}
}
