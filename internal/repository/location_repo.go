package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/IceBJJ/training-attendance-api/internal/model"
)

// LocationRepository 打卡点数据访问接口
type LocationRepository interface {
	Create(ctx context.Context, loc *model.Location) error
	GetByID(ctx context.Context, id string) (*model.Location, error)
	// GetByQRValue 按扫码值精确查找打卡点（预加载所属场馆）
	GetByQRValue(ctx context.Context, qrValue string) (*model.Location, error)
	// List 列出打卡点；facilityID 为空时返回全部
	List(ctx context.Context, facilityID string) ([]model.Location, error)
	Update(ctx context.Context, loc *model.Location) error
}

// locationRepo LocationRepository 的 GORM 实现
type locationRepo struct {
	db *gorm.DB
}

// NewLocationRepo 创建 LocationRepository 实例
func NewLocationRepo(db *gorm.DB) LocationRepository {
	return &locationRepo{db: db}
}

func (r *locationRepo) Create(ctx context.Context, loc *model.Location) error {
	return r.db.WithContext(ctx).Create(loc).Error
}

func (r *locationRepo) GetByID(ctx context.Context, id string) (*model.Location, error) {
	var loc model.Location
	err := r.db.WithContext(ctx).
		Preload("Facility").
		Where("id = ?", id).
		First(&loc).Error
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func (r *locationRepo) GetByQRValue(ctx context.Context, qrValue string) (*model.Location, error) {
	var loc model.Location
	err := r.db.WithContext(ctx).
		Preload("Facility").
		Where("qr_value = ?", qrValue).
		First(&loc).Error
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func (r *locationRepo) List(ctx context.Context, facilityID string) ([]model.Location, error) {
	var locations []model.Location
	db := r.db.WithContext(ctx)

	if facilityID != "" {
		db = db.Where("facility_id = ?", facilityID).Order("name ASC")
	} else {
		db = db.Order("facility_id ASC, name ASC")
	}

	err := db.Find(&locations).Error
	return locations, err
}

func (r *locationRepo) Update(ctx context.Context, loc *model.Location) error {
	return r.db.WithContext(ctx).Save(loc).Error
}
