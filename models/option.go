package models

import (
	"time"

	"github.com/google/uuid"
)

// OptionCategory groups product options by the aspect they customize.
type OptionCategory string

const (
	CategorySize     OptionCategory = "size"
	CategoryFrame    OptionCategory = "frame"
	CategoryMounting OptionCategory = "mounting"
)

// ProductOption is a named product variant with a signed price adjustment
// in minor currency units. Display fields are bilingual (en/zh).
type ProductOption struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Category        OptionCategory `gorm:"type:varchar(20);not null;index" json:"category"`
	NameEn          string         `gorm:"type:varchar(100);not null" json:"nameEn"`
	NameZh          string         `gorm:"type:varchar(100);not null" json:"nameZh"`
	DescriptionEn   *string        `gorm:"type:varchar(255)" json:"descriptionEn,omitempty"`
	DescriptionZh   *string        `gorm:"type:varchar(255)" json:"descriptionZh,omitempty"`
	PriceAdjustment int            `gorm:"not null" json:"priceAdjustment"`
	SortOrder       int            `gorm:"not null;default:0" json:"sortOrder"`
	Active          bool           `gorm:"not null;default:true" json:"active"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
}
