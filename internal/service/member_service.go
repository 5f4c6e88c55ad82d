package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/IceBJJ/training-attendance-api/internal/dto"
	"github.com/IceBJJ/training-attendance-api/internal/model"
	"github.com/IceBJJ/training-attendance-api/internal/repository"
)

// ── 会员模块业务错误 ──

var (
	ErrMemberExists        = errors.New("会员已存在：姓名与手机号组合重复")
	ErrMemberRecordMissing = errors.New("会员不存在")
	ErrBadPromotionDate    = errors.New("promotion_start_date 必须为 YYYY-MM-DD 或 ISO 日期时间")
)

// MemberService 会员业务接口
type MemberService interface {
	// Lookup 扫码端会员资格查询；查无/停用不作为错误返回
	Lookup(ctx context.Context, firstName, lastName, phone string) (*dto.LookupResponse, error)
	Create(ctx context.Context, req *dto.CreateMemberRequest) (*dto.MemberResponse, error)
	GetByID(ctx context.Context, id string) (*dto.MemberResponse, error)
	List(ctx context.Context, req *dto.MemberListRequest) ([]dto.MemberResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateMemberRequest) (*dto.MemberResponse, error)
	// ParseImportFile 解析花名册 Excel，返回待导入行
	ParseImportFile(reader io.Reader) ([]ImportMemberRow, error)
	// ImportMembers 按身份键 (first_name, last_name, phone) 逐行建档或更新
	ImportMembers(ctx context.Context, rows []ImportMemberRow) (*dto.ImportMemberResponse, error)
}

type memberService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewMemberService 创建 MemberService 实例
func NewMemberService(repo *repository.Repository, logger *zap.Logger) MemberService {
	return &memberService{repo: repo, logger: logger}
}

// ────────────────────── 身份解析 ──────────────────────

// normalizePhone 手机号规范化：仅保留数字，超过10位取末10位；空结果视为无手机号
func normalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) > 10 {
		digits = digits[len(digits)-10:]
	}
	return digits
}

// resolveMember 按姓名（+可选手机号）解析会员
// 姓名去空白后不区分大小写精确匹配；提供手机号时按规范化手机号筛选，
// 无匹配即按未找到处理（不回退到未筛选结果）；未提供手机号且存在同名
// 会员时取目录序第一条（created_at ASC, id ASC，选取确定）
func resolveMember(ctx context.Context, repo repository.MemberRepository, firstName, lastName, phone string) (*model.Member, error) {
	fn := strings.TrimSpace(firstName)
	ln := strings.TrimSpace(lastName)
	if fn == "" || ln == "" {
		return nil, ErrMemberNotFound
	}

	candidates, err := repo.ListByName(ctx, fn, ln)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrMemberNotFound
	}

	if ph := normalizePhone(phone); ph != "" {
		for i := range candidates {
			if candidates[i].Phone != nil && *candidates[i].Phone == ph {
				return &candidates[i], nil
			}
		}
		return nil, ErrMemberNotFound
	}

	return &candidates[0], nil
}

// ────────────────────── Lookup ──────────────────────

func (s *memberService) Lookup(ctx context.Context, firstName, lastName, phone string) (*dto.LookupResponse, error) {
	member, err := resolveMember(ctx, s.repo.Member, firstName, lastName, phone)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			return &dto.LookupResponse{Valid: false, Reason: "Not found"}, nil
		}
		s.logger.Error("会员查询失败", zap.Error(err))
		return nil, err
	}

	if !member.IsActive {
		return &dto.LookupResponse{Valid: false, Reason: "Inactive"}, nil
	}

	return &dto.LookupResponse{Valid: true, Member: s.toMemberResponse(member)}, nil
}

// ────────────────────── Create ──────────────────────

func (s *memberService) Create(ctx context.Context, req *dto.CreateMemberRequest) (*dto.MemberResponse, error) {
	phone := phonePtr(req.Phone)

	promotionDate, err := parsePromotionDate(req.PromotionStartDate)
	if err != nil {
		return nil, err
	}

	// 身份键查重
	existing, err := s.repo.Member.GetByIdentity(ctx, strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName), phone)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("会员查重失败", zap.Error(err))
		return nil, err
	}
	if existing != nil {
		return nil, ErrMemberExists
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	member := &model.Member{
		MemberID:           model.NewID("MEM"),
		FirstName:          strings.TrimSpace(req.FirstName),
		LastName:           strings.TrimSpace(req.LastName),
		Phone:              phone,
		Address:            strPtr(req.Address),
		BeltRank:           strPtr(req.BeltRank),
		PromotionStartDate: promotionDate,
		StudentType:        req.StudentType,
		IsActive:           active,
	}

	if err := s.repo.Member.Create(ctx, member); err != nil {
		s.logger.Error("创建会员失败", zap.Error(err))
		return nil, err
	}

	return s.toMemberResponse(member), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *memberService) GetByID(ctx context.Context, id string) (*dto.MemberResponse, error) {
	member, err := s.repo.Member.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberRecordMissing
		}
		s.logger.Error("查询会员失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toMemberResponse(member), nil
}

// ────────────────────── List ──────────────────────

func (s *memberService) List(ctx context.Context, req *dto.MemberListRequest) ([]dto.MemberResponse, int64, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 50
	}

	members, total, err := s.repo.Member.List(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		s.logger.Error("列出会员失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.MemberResponse, 0, len(members))
	for i := range members {
		result = append(result, *s.toMemberResponse(&members[i]))
	}

	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *memberService) Update(ctx context.Context, id string, req *dto.UpdateMemberRequest) (*dto.MemberResponse, error) {
	member, err := s.repo.Member.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberRecordMissing
		}
		s.logger.Error("查询会员失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.FirstName != nil {
		member.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		member.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Phone != nil {
		member.Phone = phonePtr(*req.Phone)
	}
	if req.Address != nil {
		member.Address = strPtr(*req.Address)
	}
	if req.BeltRank != nil {
		member.BeltRank = strPtr(*req.BeltRank)
	}
	if req.PromotionStartDate != nil {
		promotionDate, err := parsePromotionDate(*req.PromotionStartDate)
		if err != nil {
			return nil, err
		}
		member.PromotionStartDate = promotionDate
	}
	if req.StudentType != nil {
		member.StudentType = *req.StudentType
	}
	if req.Active != nil {
		member.IsActive = *req.Active
	}

	if err := s.repo.Member.Update(ctx, member); err != nil {
		s.logger.Error("更新会员失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toMemberResponse(member), nil
}

// ────────────────────── ParseImportFile ──────────────────────

const maxImportRows = 1000

var (
	ErrImportNoData      = errors.New("Excel文件无数据行（第一行为表头）")
	ErrImportTooManyRows = fmt.Errorf("数据行数超过上限 %d 行", maxImportRows)
	ErrImportBadHeader   = errors.New("Excel表头缺少必要列（first_name/last_name/student_type）")
)

// ImportMemberRow 花名册导入的单行原始数据
type ImportMemberRow struct {
	Row                int
	FirstName          string
	LastName           string
	Phone              string
	Address            string
	BeltRank           string
	PromotionStartDate string
	StudentType        string
	Active             string
}

// ParseImportFile 解析花名册 Excel 文件，返回解析后的行数据
func (s *memberService) ParseImportFile(reader io.Reader) ([]ImportMemberRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("无法解析Excel文件: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	excelRows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("读取工作表失败: %w", err)
	}

	if len(excelRows) < 2 {
		return nil, ErrImportNoData
	}

	// 解析表头（支持灵活列序）
	colIndex := parseMemberHeaderIndex(excelRows[0])
	if colIndex["first_name"] < 0 || colIndex["last_name"] < 0 || colIndex["student_type"] < 0 {
		return nil, ErrImportBadHeader
	}

	cell := func(row []string, key string) string {
		if idx := colIndex[key]; idx >= 0 && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	var rows []ImportMemberRow
	for i := 1; i < len(excelRows); i++ {
		row := excelRows[i]
		item := ImportMemberRow{
			Row:                i + 1,
			FirstName:          cell(row, "first_name"),
			LastName:           cell(row, "last_name"),
			Phone:              cell(row, "phone"),
			Address:            cell(row, "address"),
			BeltRank:           cell(row, "belt_rank"),
			PromotionStartDate: cell(row, "promotion_start_date"),
			StudentType:        cell(row, "student_type"),
			Active:             cell(row, "active"),
		}

		// 跳过全空行
		if item.FirstName == "" && item.LastName == "" && item.Phone == "" && item.StudentType == "" {
			continue
		}

		rows = append(rows, item)
	}

	if len(rows) == 0 {
		return nil, ErrImportNoData
	}
	if len(rows) > maxImportRows {
		return nil, ErrImportTooManyRows
	}

	return rows, nil
}

// parseMemberHeaderIndex 解析 Excel 表头，返回列名 -> 列索引映射
func parseMemberHeaderIndex(header []string) map[string]int {
	idx := map[string]int{
		"first_name":           -1,
		"last_name":            -1,
		"phone":                -1,
		"address":              -1,
		"belt_rank":            -1,
		"promotion_start_date": -1,
		"student_type":         -1,
		"active":               -1,
	}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, ok := idx[key]; ok {
			idx[key] = i
		}
	}
	return idx
}

// ────────────────────── ImportMembers ──────────────────────

func (s *memberService) ImportMembers(ctx context.Context, rows []ImportMemberRow) (*dto.ImportMemberResponse, error) {
	resp := &dto.ImportMemberResponse{Total: len(rows)}

	for _, row := range rows {
		if err := s.importOne(ctx, row, resp); err != nil {
			resp.Errors = append(resp.Errors, dto.ImportRowError{Row: row.Row, Reason: err.Error()})
		}
	}

	resp.Skipped = len(resp.Errors)

	s.logger.Info("花名册导入完成",
		zap.Int("total", resp.Total),
		zap.Int("created", resp.Created),
		zap.Int("updated", resp.Updated),
		zap.Int("skipped", resp.Skipped),
	)

	return resp, nil
}

func (s *memberService) importOne(ctx context.Context, row ImportMemberRow, resp *dto.ImportMemberResponse) error {
	if row.FirstName == "" || row.LastName == "" {
		return errors.New("first_name 与 last_name 不能为空")
	}

	studentType := strings.ToLower(row.StudentType)
	if studentType != model.StudentTypeAdult && studentType != model.StudentTypeYouth {
		return fmt.Errorf("student_type 必须为 adult 或 youth，实际: %q", row.StudentType)
	}

	active, err := parseActiveFlag(row.Active)
	if err != nil {
		return err
	}

	promotionDate, err := parsePromotionDate(row.PromotionStartDate)
	if err != nil {
		return err
	}

	phone := phonePtr(row.Phone)

	existing, err := s.repo.Member.GetByIdentity(ctx, row.FirstName, row.LastName, phone)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if existing != nil {
		existing.Phone = phone
		existing.Address = strPtr(row.Address)
		existing.BeltRank = strPtr(row.BeltRank)
		existing.PromotionStartDate = promotionDate
		existing.StudentType = studentType
		existing.IsActive = active
		if err := s.repo.Member.Update(ctx, existing); err != nil {
			return err
		}
		resp.Updated++
		return nil
	}

	member := &model.Member{
		MemberID:           model.NewID("MEM"),
		FirstName:          row.FirstName,
		LastName:           row.LastName,
		Phone:              phone,
		Address:            strPtr(row.Address),
		BeltRank:           strPtr(row.BeltRank),
		PromotionStartDate: promotionDate,
		StudentType:        studentType,
		IsActive:           active,
	}
	if err := s.repo.Member.Create(ctx, member); err != nil {
		return err
	}
	resp.Created++
	return nil
}

// ── 内部辅助方法 ──

// parseActiveFlag 解析导入文件的 active 列；空白默认在职
func parseActiveFlag(val string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "", "1", "true", "yes", "y":
		return true, nil
	case "0", "false", "no", "n":
		return false, nil
	default:
		return false, fmt.Errorf("active 必须为 1/0 或 true/false，实际: %q", val)
	}
}

// parsePromotionDate 解析晋升起始日期：YYYY-MM-DD 或 ISO 日期时间；空白返回 nil
func parsePromotionDate(val string) (*time.Time, error) {
	v := strings.TrimSpace(val)
	if v == "" {
		return nil, nil
	}

	if t, err := time.Parse("2006-01-02", v); err == nil {
		return &t, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	// 无时区的 ISO 日期时间（如 2024-01-15T09:00:00）
	if t, err := time.Parse("2006-01-02T15:04:05", v); err == nil {
		return &t, nil
	}

	return nil, ErrBadPromotionDate
}

// phonePtr 规范化手机号并转为指针；空结果返回 nil
func phonePtr(phone string) *string {
	if ph := normalizePhone(phone); ph != "" {
		return &ph
	}
	return nil
}

// strPtr 去空白后转指针；空串返回 nil
func strPtr(s string) *string {
	if v := strings.TrimSpace(s); v != "" {
		return &v
	}
	return nil
}

func (s *memberService) toMemberResponse(m *model.Member) *dto.MemberResponse {
	var promotionDate *string
	if m.PromotionStartDate != nil {
		d := m.PromotionStartDate.Format("2006-01-02")
		promotionDate = &d
	}

	return &dto.MemberResponse{
		ID:                 m.MemberID,
		FirstName:          m.FirstName,
		LastName:           m.LastName,
		Phone:              m.Phone,
		Address:            m.Address,
		BeltRank:           m.BeltRank,
		PromotionStartDate: promotionDate,
		StudentType:        m.StudentType,
		Active:             m.IsActive,
		CreatedAt:          m.CreatedAt.Format(time.RFC3339),
	}
}
