package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/IceBJJ/training-attendance-api/internal/dto"
	"github.com/IceBJJ/training-attendance-api/internal/model"
	"github.com/IceBJJ/training-attendance-api/internal/repository"
)

// ── 场馆模块业务错误 ──

var (
	ErrFacilityNotFound = errors.New("场馆不存在")
	ErrLocationNotFound = errors.New("打卡点不存在")
	ErrQRValueTaken     = errors.New("扫码值已被其他打卡点占用")
)

// FacilityService 场馆与打卡点业务接口
type FacilityService interface {
	CreateFacility(ctx context.Context, req *dto.CreateFacilityRequest) (*dto.FacilityResponse, error)
	GetFacility(ctx context.Context, id string) (*dto.FacilityResponse, error)
	// ListFacilities 场馆列表；includeInactive=false 时仅返回营业中场馆
	ListFacilities(ctx context.Context, includeInactive bool) ([]dto.FacilityResponse, error)
	UpdateFacility(ctx context.Context, id string, req *dto.UpdateFacilityRequest) (*dto.FacilityResponse, error)

	CreateLocation(ctx context.Context, req *dto.CreateLocationRequest) (*dto.LocationResponse, error)
	ListLocations(ctx context.Context, facilityID string) ([]dto.LocationResponse, error)
	UpdateLocation(ctx context.Context, id string, req *dto.UpdateLocationRequest) (*dto.LocationResponse, error)
}

type facilityService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewFacilityService 创建 FacilityService 实例
func NewFacilityService(repo *repository.Repository, logger *zap.Logger) FacilityService {
	return &facilityService{repo: repo, logger: logger}
}

// ────────────────────── 场馆 ──────────────────────

func (s *facilityService) CreateFacility(ctx context.Context, req *dto.CreateFacilityRequest) (*dto.FacilityResponse, error) {
	facility := &model.Facility{
		FacilityID: model.NewID("FAC"),
		Name:       strings.TrimSpace(req.Name),
		Address:    strPtr(req.Address),
		IsActive:   true,
	}

	if err := s.repo.Facility.Create(ctx, facility); err != nil {
		s.logger.Error("创建场馆失败", zap.Error(err))
		return nil, err
	}

	return s.toFacilityResponse(facility), nil
}

func (s *facilityService) GetFacility(ctx context.Context, id string) (*dto.FacilityResponse, error) {
	facility, err := s.repo.Facility.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFacilityNotFound
		}
		s.logger.Error("查询场馆失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toFacilityResponse(facility), nil
}

func (s *facilityService) ListFacilities(ctx context.Context, includeInactive bool) ([]dto.FacilityResponse, error) {
	facilities, err := s.repo.Facility.List(ctx, includeInactive)
	if err != nil {
		s.logger.Error("列出场馆失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.FacilityResponse, 0, len(facilities))
	for i := range facilities {
		result = append(result, *s.toFacilityResponse(&facilities[i]))
	}

	return result, nil
}

func (s *facilityService) UpdateFacility(ctx context.Context, id string, req *dto.UpdateFacilityRequest) (*dto.FacilityResponse, error) {
	facility, err := s.repo.Facility.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFacilityNotFound
		}
		s.logger.Error("查询场馆失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		facility.Name = strings.TrimSpace(*req.Name)
	}
	if req.Address != nil {
		facility.Address = strPtr(*req.Address)
	}
	if req.Active != nil {
		facility.IsActive = *req.Active
	}

	if err := s.repo.Facility.Update(ctx, facility); err != nil {
		s.logger.Error("更新场馆失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toFacilityResponse(facility), nil
}

// ────────────────────── 打卡点 ──────────────────────

func (s *facilityService) CreateLocation(ctx context.Context, req *dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	facility, err := s.repo.Facility.GetByID(ctx, req.FacilityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFacilityNotFound
		}
		s.logger.Error("查询场馆失败", zap.String("id", req.FacilityID), zap.Error(err))
		return nil, err
	}

	// qr_value 缺省按场馆 ID 生成（与种子数据 QR_FAC_xxx 约定一致）
	qrValue := strings.TrimSpace(req.QRValue)
	if qrValue == "" {
		qrValue = "QR_" + facility.FacilityID
	}

	if err := s.ensureQRValueFree(ctx, qrValue, ""); err != nil {
		return nil, err
	}

	loc := &model.Location{
		LocationID:  model.NewID("LOC"),
		FacilityID:  facility.FacilityID,
		Name:        strings.TrimSpace(req.Name),
		Description: strPtr(req.Description),
		QRValue:     qrValue,
	}

	if err := s.repo.Location.Create(ctx, loc); err != nil {
		s.logger.Error("创建打卡点失败", zap.Error(err))
		return nil, err
	}

	return s.toLocationResponse(loc), nil
}

func (s *facilityService) ListLocations(ctx context.Context, facilityID string) ([]dto.LocationResponse, error) {
	locations, err := s.repo.Location.List(ctx, facilityID)
	if err != nil {
		s.logger.Error("列出打卡点失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.LocationResponse, 0, len(locations))
	for i := range locations {
		result = append(result, *s.toLocationResponse(&locations[i]))
	}

	return result, nil
}

func (s *facilityService) UpdateLocation(ctx context.Context, id string, req *dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	loc, err := s.repo.Location.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationNotFound
		}
		s.logger.Error("查询打卡点失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		loc.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		loc.Description = strPtr(*req.Description)
	}
	if req.QRValue != nil {
		qrValue := strings.TrimSpace(*req.QRValue)
		if qrValue != "" && qrValue != loc.QRValue {
			if err := s.ensureQRValueFree(ctx, qrValue, loc.LocationID); err != nil {
				return nil, err
			}
			loc.QRValue = qrValue
		}
	}

	if err := s.repo.Location.Update(ctx, loc); err != nil {
		s.logger.Error("更新打卡点失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toLocationResponse(loc), nil
}

// ── 内部辅助方法 ──

// ensureQRValueFree 校验扫码值未被其他打卡点占用；excludeID 为允许复用的自身 ID
func (s *facilityService) ensureQRValueFree(ctx context.Context, qrValue, excludeID string) error {
	existing, err := s.repo.Location.GetByQRValue(ctx, qrValue)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		s.logger.Error("扫码值查重失败", zap.Error(err))
		return err
	}
	if existing.LocationID == excludeID {
		return nil
	}
	return ErrQRValueTaken
}

func (s *facilityService) toFacilityResponse(f *model.Facility) *dto.FacilityResponse {
	return &dto.FacilityResponse{
		ID:      f.FacilityID,
		Name:    f.Name,
		Address: f.Address,
		Active:  f.IsActive,
	}
}

func (s *facilityService) toLocationResponse(l *model.Location) *dto.LocationResponse {
	return &dto.LocationResponse{
		ID:          l.LocationID,
		FacilityID:  l.FacilityID,
		Name:        l.Name,
		Description: l.Description,
		QRValue:     l.QRValue,
	}
}
