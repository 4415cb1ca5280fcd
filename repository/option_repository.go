package repository

import (
	"context"

	"wheatstraw-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OptionRepository defines the interface for product option data access
type OptionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.ProductOption, error)
	FindActive(ctx context.Context) ([]models.ProductOption, error)
	FindActiveByCategory(ctx context.Context, category models.OptionCategory) ([]models.ProductOption, error)
	SeedDefaults(ctx context.Context) error
}

type GormOptionRepository struct {
	db *gorm.DB
}

func NewGormOptionRepository(db *gorm.DB) OptionRepository {
	return &GormOptionRepository{db: db}
}

func (r *GormOptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.ProductOption, error) {
	var opt models.ProductOption
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&opt).Error; err != nil {
		return nil, err
	}
	return &opt, nil
}

func (r *GormOptionRepository) FindActive(ctx context.Context) ([]models.ProductOption, error) {
	var opts []models.ProductOption
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("category, sort_order").
		Find(&opts).Error; err != nil {
		return nil, err
	}
	return opts, nil
}

func (r *GormOptionRepository) FindActiveByCategory(ctx context.Context, category models.OptionCategory) ([]models.ProductOption, error) {
	var opts []models.ProductOption
	if err := r.db.WithContext(ctx).
		Where("active = ? AND category = ?", true, category).
		Order("sort_order").
		Find(&opts).Error; err != nil {
		return nil, err
	}
	return opts, nil
}

// SeedDefaults inserts the catalog options on an empty table.
func (r *GormOptionRepository) SeedDefaults(ctx context.Context) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProductOption{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(defaultOptions()).Error
}

func strPtr(s string) *string { return &s }

func defaultOptions() []models.ProductOption {
	return []models.ProductOption{
		{
			Category:        models.CategorySize,
			NameEn:          "Small (30x30cm)",
			NameZh:          "小号（30x30厘米）",
			DescriptionEn:   strPtr("Desk-sized piece"),
			DescriptionZh:   strPtr("桌面摆放尺寸"),
			PriceAdjustment: 0,
			SortOrder:       1,
			Active:          true,
		},
		{
			Category:        models.CategorySize,
			NameEn:          "Medium (50x50cm)",
			NameZh:          "中号（50x50厘米）",
			DescriptionEn:   strPtr("Living room wall size"),
			DescriptionZh:   strPtr("客厅墙面尺寸"),
			PriceAdjustment: 500,
			SortOrder:       2,
			Active:          true,
		},
		{
			Category:        models.CategorySize,
			NameEn:          "Large (70x70cm)",
			NameZh:          "大号（70x70厘米）",
			DescriptionEn:   strPtr("Statement piece"),
			DescriptionZh:   strPtr("大型装饰画"),
			PriceAdjustment: 1500,
			SortOrder:       3,
			Active:          true,
		},
		{
			Category:        models.CategoryFrame,
			NameEn:          "No frame",
			NameZh:          "无画框",
			PriceAdjustment: 0,
			SortOrder:       1,
			Active:          true,
		},
		{
			Category:        models.CategoryFrame,
			NameEn:          "Natural wood frame",
			NameZh:          "原木画框",
			DescriptionEn:   strPtr("Solid pine, hand finished"),
			DescriptionZh:   strPtr("实木松木，手工打磨"),
			PriceAdjustment: 300,
			SortOrder:       2,
			Active:          true,
		},
		{
			Category:        models.CategoryFrame,
			NameEn:          "Black lacquer frame",
			NameZh:          "黑漆画框",
			PriceAdjustment: 800,
			SortOrder:       3,
			Active:          true,
		},
		{
			Category:        models.CategoryMounting,
			NameEn:          "Standard backing",
			NameZh:          "标准装裱",
			PriceAdjustment: 0,
			SortOrder:       1,
			Active:          true,
		},
		{
			Category:        models.CategoryMounting,
			NameEn:          "Silk brocade mounting",
			NameZh:          "锦缎装裱",
			DescriptionEn:   strPtr("Traditional silk border"),
			DescriptionZh:   strPtr("传统丝绸边框"),
			PriceAdjustment: 600,
			SortOrder:       2,
			Active:          true,
		},
	}
}
