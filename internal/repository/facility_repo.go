package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/IceBJJ/training-attendance-api/internal/model"
)

// FacilityRepository 场馆数据访问接口
type FacilityRepository interface {
	Create(ctx context.Context, facility *model.Facility) error
	GetByID(ctx context.Context, id string) (*model.Facility, error)
	List(ctx context.Context, includeInactive bool) ([]model.Facility, error)
	Update(ctx context.Context, facility *model.Facility) error
}

// facilityRepo FacilityRepository 的 GORM 实现
type facilityRepo struct {
	db *gorm.DB
}

// NewFacilityRepo 创建 FacilityRepository 实例
func NewFacilityRepo(db *gorm.DB) FacilityRepository {
	return &facilityRepo{db: db}
}

func (r *facilityRepo) Create(ctx context.Context, facility *model.Facility) error {
	return r.db.WithContext(ctx).Create(facility).Error
}

func (r *facilityRepo) GetByID(ctx context.Context, id string) (*model.Facility, error) {
	var facility model.Facility
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&facility).Error
	if err != nil {
		return nil, err
	}
	return &facility, nil
}

func (r *facilityRepo) List(ctx context.Context, includeInactive bool) ([]model.Facility, error) {
	var facilities []model.Facility
	db := r.db.WithContext(ctx)

	if !includeInactive {
		db = db.Where("active = ?", true)
	}

	err := db.Order("name ASC").Find(&facilities).Error
	return facilities, err
}

func (r *facilityRepo) Update(ctx context.Context, facility *model.Facility) error {
	return r.db.WithContext(ctx).Save(facility).Error
}
