package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/IceBJJ/training-attendance-api/internal/dto"
	"github.com/IceBJJ/training-attendance-api/internal/model"
	"github.com/IceBJJ/training-attendance-api/internal/repository"
)

// 单次报表覆盖的会员数上限；连锁馆体量远低于此
const reportMemberLimit = 10000

var (
	// ErrExportGenerateFail Excel 生成失败
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ReportService 考勤统计报表接口
//
// 设计说明：
//   - 纯只读投影，不修改任何数据
//   - 有晋升起始日期的会员统计该日期（含）之后的打卡次数并折算已训月数；
//     无起始日期的会员统计全部打卡次数，月数为 null
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ReportService interface {
	// ListProgress 全员晋升进度报表
	ListProgress(ctx context.Context) ([]dto.MemberProgressResponse, error)
	// MemberMonthly 单个会员的按月打卡明细（YYYY-MM 分组）
	MemberMonthly(ctx context.Context, memberID string) (*dto.MemberMonthlyReportResponse, error)
	// ExportProgress 晋升进度报表导出为 Excel
	ExportProgress(ctx context.Context) (*bytes.Buffer, string, error)
}

type reportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewReportService 创建 ReportService 实例
func NewReportService(repo *repository.Repository, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, logger: logger}
}

// ────────────────────── ListProgress ──────────────────────

func (s *reportService) ListProgress(ctx context.Context) ([]dto.MemberProgressResponse, error) {
	members, _, err := s.repo.Member.List(ctx, 0, reportMemberLimit)
	if err != nil {
		s.logger.Error("查询会员列表失败", zap.Error(err))
		return nil, err
	}

	now := time.Now().UTC()
	result := make([]dto.MemberProgressResponse, 0, len(members))

	for i := range members {
		m := &members[i]

		sessions, err := s.repo.Attendance.CountByMemberSince(ctx, m.MemberID, m.PromotionStartDate)
		if err != nil {
			s.logger.Error("统计打卡次数失败", zap.String("member_id", m.MemberID), zap.Error(err))
			return nil, err
		}

		item := dto.MemberProgressResponse{
			MemberID:    m.MemberID,
			MemberName:  m.FullName(),
			BeltRank:    m.BeltRank,
			StudentType: m.StudentType,
			Sessions:    sessions,
		}
		if m.PromotionStartDate != nil {
			d := m.PromotionStartDate.Format("2006-01-02")
			item.PromotionStartDate = &d
			months := monthsSincePromotion(*m.PromotionStartDate, now)
			item.MonthsSincePromotion = &months
		}

		result = append(result, item)
	}

	return result, nil
}

// ────────────────────── MemberMonthly ──────────────────────

func (s *reportService) MemberMonthly(ctx context.Context, memberID string) (*dto.MemberMonthlyReportResponse, error) {
	member, err := s.repo.Member.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberRecordMissing
		}
		s.logger.Error("查询会员失败", zap.String("id", memberID), zap.Error(err))
		return nil, err
	}

	events, err := s.repo.Attendance.ListByMemberSince(ctx, memberID, member.PromotionStartDate)
	if err != nil {
		s.logger.Error("查询打卡记录失败", zap.String("member_id", memberID), zap.Error(err))
		return nil, err
	}

	return &dto.MemberMonthlyReportResponse{
		MemberID:   member.MemberID,
		MemberName: member.FullName(),
		Months:     groupByMonth(events),
	}, nil
}

// ────────────────────── ExportProgress ──────────────────────

func (s *reportService) ExportProgress(ctx context.Context) (*bytes.Buffer, string, error) {
	rows, err := s.ListProgress(ctx)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	headers := []string{"会员ID", "姓名", "腰带", "学员类型", "晋升起始日期", "已训月数", "打卡次数"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			s.logger.Error("写入表头失败", zap.Error(err))
			return nil, "", ErrExportGenerateFail
		}
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(headers), 1)
	_ = f.SetCellStyle(sheet, "A1", endCell, headerStyle)

	for i, row := range rows {
		values := []interface{}{
			row.MemberID,
			row.MemberName,
			deref(row.BeltRank),
			row.StudentType,
			deref(row.PromotionStartDate),
			monthsCell(row.MonthsSincePromotion),
			row.Sessions,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				s.logger.Error("写入数据行失败", zap.Error(err))
				return nil, "", ErrExportGenerateFail
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("序列化 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("member_progress_%s.xlsx", time.Now().UTC().Format("20060102"))
	return buf, filename, nil
}

// ── 内部辅助方法 ──

// monthsSincePromotion 计算晋升起始日期至 now 的折算月数
// 规则：(年差)*12 + 月差，当日（now.day >= start.day）再 +1，下限 0
func monthsSincePromotion(start, now time.Time) int {
	months := (now.Year()-start.Year())*12 + int(now.Month()) - int(start.Month())
	if now.Day() >= start.Day() {
		months++
	}
	if months < 0 {
		return 0
	}
	return months
}

// groupByMonth 按打卡时间的日历月（YYYY-MM）分组计数，按月份升序返回
func groupByMonth(events []model.AttendanceEvent) []dto.MonthlyAttendanceResponse {
	counts := make(map[string]int64)
	for i := range events {
		counts[events[i].CheckInTime.Format("2006-01")]++
	}

	months := make([]string, 0, len(counts))
	for m := range counts {
		months = append(months, m)
	}
	sort.Strings(months)

	result := make([]dto.MonthlyAttendanceResponse, 0, len(months))
	for _, m := range months {
		result = append(result, dto.MonthlyAttendanceResponse{Month: m, Count: counts[m]})
	}
	return result
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func monthsCell(n *int) interface{} {
	if n == nil {
		return ""
	}
	return *n
}
