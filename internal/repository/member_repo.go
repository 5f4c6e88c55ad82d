package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/IceBJJ/training-attendance-api/internal/model"
)

// MemberRepository 会员数据访问接口
type MemberRepository interface {
	Create(ctx context.Context, member *model.Member) error
	GetByID(ctx context.Context, id string) (*model.Member, error)
	// ListByName 按姓名查找（不区分大小写，精确匹配）
	// 结果按 created_at ASC, id ASC 排序，保证同名会员的选取确定性
	ListByName(ctx context.Context, firstName, lastName string) ([]model.Member, error)
	// GetByIdentity 按身份键 (first_name, last_name, phone) 精确查找，用于导入去重
	GetByIdentity(ctx context.Context, firstName, lastName string, phone *string) (*model.Member, error)
	List(ctx context.Context, offset, limit int) ([]model.Member, int64, error)
	Update(ctx context.Context, member *model.Member) error
}

// memberRepo MemberRepository 的 GORM 实现
type memberRepo struct {
	db *gorm.DB
}

// NewMemberRepo 创建 MemberRepository 实例
func NewMemberRepo(db *gorm.DB) MemberRepository {
	return &memberRepo{db: db}
}

func (r *memberRepo) Create(ctx context.Context, member *model.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *memberRepo) GetByID(ctx context.Context, id string) (*model.Member, error) {
	var member model.Member
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepo) ListByName(ctx context.Context, firstName, lastName string) ([]model.Member, error) {
	var members []model.Member
	err := r.db.WithContext(ctx).
		Where("LOWER(first_name) = LOWER(?) AND LOWER(last_name) = LOWER(?)", firstName, lastName).
		Order("created_at ASC, id ASC").
		Find(&members).Error
	return members, err
}

func (r *memberRepo) GetByIdentity(ctx context.Context, firstName, lastName string, phone *string) (*model.Member, error) {
	var member model.Member
	db := r.db.WithContext(ctx).
		Where("LOWER(first_name) = LOWER(?) AND LOWER(last_name) = LOWER(?)", firstName, lastName)

	if phone == nil {
		db = db.Where("phone IS NULL")
	} else {
		db = db.Where("phone = ?", *phone)
	}

	err := db.First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepo) List(ctx context.Context, offset, limit int) ([]model.Member, int64, error) {
	var members []model.Member
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Member{})

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("last_name ASC, first_name ASC").
		Find(&members).Error; err != nil {
		return nil, 0, err
	}

	return members, total, nil
}

func (r *memberRepo) Update(ctx context.Context, member *model.Member) error {
	return r.db.WithContext(ctx).Save(member).Error
}
