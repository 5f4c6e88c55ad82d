package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IceBJJ/training-attendance-api/internal/dto"
	"github.com/IceBJJ/training-attendance-api/internal/service"
	"github.com/IceBJJ/training-attendance-api/pkg/response"
)

// MemberHandler 会员模块 HTTP 处理器
// Lookup 面向扫码端（扁平响应），其余为管理端接口（统一封装）
type MemberHandler struct {
	memberSvc service.MemberService
}

// NewMemberHandler 创建 MemberHandler
func NewMemberHandler(memberSvc service.MemberService) *MemberHandler {
	return &MemberHandler{memberSvc: memberSvc}
}

// Lookup 会员资格查询
// GET /members/lookup?first_name=&last_name=&phone=
func (h *MemberHandler) Lookup(c *gin.Context) {
	result, err := h.memberSvc.Lookup(
		c.Request.Context(),
		c.Query("first_name"),
		c.Query("last_name"),
		c.Query("phone"),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ScanErrorResponse{Detail: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// CreateMember 创建会员
// POST /api/v1/admin/members
func (h *MemberHandler) CreateMember(c *gin.Context) {
	var req dto.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	member, err := h.memberSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleMemberError(c, err)
		return
	}

	response.Created(c, member)
}

// GetMember 获取会员详情
// GET /api/v1/admin/members/:id
func (h *MemberHandler) GetMember(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "会员ID不能为空")
		return
	}

	member, err := h.memberSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleMemberError(c, err)
		return
	}

	response.OK(c, member)
}

// ListMembers 会员列表（分页）
// GET /api/v1/admin/members
func (h *MemberHandler) ListMembers(c *gin.Context) {
	var req dto.MemberListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	members, total, err := h.memberSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleMemberError(c, err)
		return
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 50
	}

	response.OKPage(c, members, total, page, pageSize)
}

// UpdateMember 更新会员
// PUT /api/v1/admin/members/:id
func (h *MemberHandler) UpdateMember(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "会员ID不能为空")
		return
	}

	var req dto.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	member, err := h.memberSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleMemberError(c, err)
		return
	}

	response.OK(c, member)
}

// ImportMembers 花名册导入
// POST /api/v1/admin/members/import （multipart 字段 file，.xlsx）
func (h *MemberHandler) ImportMembers(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "缺少上传文件（字段名 file）")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, 10001, "无法读取上传文件")
		return
	}
	defer f.Close()

	rows, err := h.memberSvc.ParseImportFile(f)
	if err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "解析导入文件失败", err.Error())
		return
	}

	result, err := h.memberSvc.ImportMembers(c.Request.Context(), rows)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// handleMemberError 统一处理会员模块业务错误
func (h *MemberHandler) handleMemberError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMemberRecordMissing):
		response.NotFound(c, 11001, "会员不存在")
	case errors.Is(err, service.ErrMemberExists):
		response.BadRequest(c, 11002, "会员已存在：姓名与手机号组合重复")
	case errors.Is(err, service.ErrBadPromotionDate):
		response.BadRequest(c, 11003, "promotion_start_date 格式无效")
	default:
		response.InternalError(c)
	}
}
