package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/IceBJJ/training-attendance-api/config"
	"github.com/IceBJJ/training-attendance-api/internal/dto"
	"github.com/IceBJJ/training-attendance-api/internal/model"
	"github.com/IceBJJ/training-attendance-api/internal/repository"
)

// ── 扫码模块业务错误 ──
// 错误文案直接作为扫码端 400 响应的 detail 字段下发，保持英文

var (
	ErrMemberNotFound    = errors.New("Member not found. Name (and phone if used) must match membership database.")
	ErrMemberInactive    = errors.New("Member is inactive.")
	ErrCodeNotRecognized = errors.New("QR code not recognized")
)

// ScanOutcome 扫码判定结果
type ScanOutcome string

const (
	OutcomeRecorded ScanOutcome = "ok"       // 写入新打卡记录
	OutcomeIgnored  ScanOutcome = "ignored"  // 忽略窗口内的重复扫码，静默丢弃
	OutcomeTooSoon  ScanOutcome = "too_soon" // 阻止窗口内的重复扫码，提示等待
)

// ScanService 扫码打卡业务接口
type ScanService interface {
	Scan(ctx context.Context, req *dto.ScanRequest) (*dto.ScanResponse, error)
}

type scanService struct {
	checkin *config.CheckinConfig
	repo    *repository.Repository
	logger  *zap.Logger
}

// NewScanService 创建 ScanService 实例
// 时间窗口通过 CheckinConfig 显式注入，测试可独立参数化
func NewScanService(checkin *config.CheckinConfig, repo *repository.Repository, logger *zap.Logger) ScanService {
	return &scanService{checkin: checkin, repo: repo, logger: logger}
}

// ────────────────────── Scan ──────────────────────
//
// 判定流程：
//  1. 按姓名（+可选手机号）解析会员，会员必须存在且在职
//  2. 扫码值解析为打卡点及所属场馆
//  3. 取该会员在该场馆的最近一次打卡，按时间窗口判定：
//     distance <  ignore 窗口 → ignored（不写记录）
//     distance <  block  窗口 → too_soon（不写记录）
//     否则 → 写入新记录
//     窗口比较为严格小于：恰好 15.00 分钟不忽略，恰好 30.00 分钟不阻止
//
// 「读最近记录 + 条件追加」在单个事务内执行；并发扫码产生重复 Recorded
// 需要数据库交错两个事务，常规串行化隔离下不会发生

func (s *scanService) Scan(ctx context.Context, req *dto.ScanRequest) (*dto.ScanResponse, error) {
	ts := time.Now().UTC()
	if req.Timestamp != nil {
		ts = req.Timestamp.UTC()
	}

	// 1. 会员解析（必须存在且在职）
	member, err := resolveMember(ctx, s.repo.Member, req.FirstName, req.LastName, req.Phone)
	if err != nil {
		return nil, err
	}
	if !member.IsActive {
		return nil, ErrMemberInactive
	}

	// 2. 扫码值解析
	loc, err := s.resolveLocation(ctx, req.QRValue)
	if err != nil {
		return nil, err
	}

	facilityName := ""
	if loc.Facility != nil {
		facilityName = loc.Facility.Name
	}

	// 3. 窗口判定 + 条件追加（同一事务）
	var resp *dto.ScanResponse
	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		last, err := txRepo.Attendance.LastByMemberAtFacility(ctx, member.MemberID, loc.FacilityID)
		if err != nil {
			return err
		}

		var lastTime *time.Time
		if last != nil {
			lastTime = &last.CheckInTime
		}

		outcome, minutes := decideOutcome(lastTime, ts, s.checkin.IgnoreWindow(), s.checkin.BlockWindow())

		switch outcome {
		case OutcomeIgnored:
			resp = s.throttledResponse(OutcomeIgnored,
				fmt.Sprintf("Scan ignored (within %d minutes).", s.checkin.IgnoreMinutes),
				member, loc.FacilityID, facilityName, minutes, ts)
			return nil

		case OutcomeTooSoon:
			resp = s.throttledResponse(OutcomeTooSoon,
				fmt.Sprintf("Scan blocked (must wait %d minutes between check-ins at a facility).", s.checkin.FacilityMinutes),
				member, loc.FacilityID, facilityName, minutes, ts)
			return nil

		default:
			event := &model.AttendanceEvent{
				AttendanceID: model.NewID("ATT"),
				MemberID:     member.MemberID,
				FacilityID:   loc.FacilityID,
				LocationID:   loc.LocationID,
				CheckInTime:  ts,
			}
			if err := txRepo.Attendance.Create(ctx, event); err != nil {
				return err
			}

			resp = &dto.ScanResponse{
				Status:       string(OutcomeRecorded),
				Message:      "Attendance recorded",
				AttendanceID: event.AttendanceID,
				MemberID:     member.MemberID,
				MemberName:   member.FullName(),
				FacilityID:   loc.FacilityID,
				FacilityName: facilityName,
				LocationID:   loc.LocationID,
				CheckInTime:  ts.Format(time.RFC3339),
			}
			return nil
		}
	})
	if err != nil {
		s.logger.Error("扫码打卡写入失败",
			zap.String("member_id", member.MemberID),
			zap.String("facility_id", loc.FacilityID),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("扫码判定完成",
		zap.String("status", resp.Status),
		zap.String("member_id", member.MemberID),
		zap.String("facility_id", loc.FacilityID),
	)

	return resp, nil
}

// ── 内部辅助方法 ──

// resolveLocation 扫码值解析为打卡点
// 先按清理后的原始值精确匹配；未命中且规范化改变了值时，再按规范化值重试
func (s *scanService) resolveLocation(ctx context.Context, raw string) (*model.Location, error) {
	cleaned := cleanScanValue(raw)

	loc, err := s.repo.Location.GetByQRValue(ctx, cleaned)
	if err == nil {
		return loc, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if normalized := extractScanCode(raw); normalized != cleaned {
		loc, err = s.repo.Location.GetByQRValue(ctx, normalized)
		if err == nil {
			return loc, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	return nil, ErrCodeNotRecognized
}

func (s *scanService) throttledResponse(outcome ScanOutcome, message string, member *model.Member, facilityID, facilityName string, minutes float64, ts time.Time) *dto.ScanResponse {
	rounded := roundMinutes(minutes)
	return &dto.ScanResponse{
		Status:           string(outcome),
		Message:          message,
		MemberID:         member.MemberID,
		MemberName:       member.FullName(),
		FacilityID:       facilityID,
		FacilityName:     facilityName,
		MinutesSinceLast: &rounded,
		Timestamp:        ts.Format(time.RFC3339),
	}
}

// decideOutcome 扫码时间窗口判定（纯函数）
// last 为空表示该会员在该场馆无历史记录，直接记录
// 返回值 minutes 为距上次打卡的分钟数（未舍入）；无历史时为 0
func decideOutcome(last *time.Time, now time.Time, ignoreWindow, blockWindow time.Duration) (ScanOutcome, float64) {
	if last == nil {
		return OutcomeRecorded, 0
	}

	elapsed := now.Sub(*last)
	minutes := elapsed.Minutes()

	if elapsed < ignoreWindow {
		return OutcomeIgnored, minutes
	}
	if elapsed < blockWindow {
		return OutcomeTooSoon, minutes
	}
	return OutcomeRecorded, minutes
}

// roundMinutes 分钟数保留2位小数
func roundMinutes(m float64) float64 {
	return math.Round(m*100) / 100
}
