package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderStatus is the closed set of order lifecycle states.
type OrderStatus string

const (
	StatusPending      OrderStatus = "pending"
	StatusPaid         OrderStatus = "paid"
	StatusInProduction OrderStatus = "in_production"
	StatusShipped      OrderStatus = "shipped"
	StatusCompleted    OrderStatus = "completed"
	StatusCancelled    OrderStatus = "cancelled"
)

// allowedPredecessors maps each target status to the states it may be entered from.
// cancelled is reachable from any non-terminal state.
var allowedPredecessors = map[OrderStatus][]OrderStatus{
	StatusPaid:         {StatusPending},
	StatusInProduction: {StatusPaid},
	StatusShipped:      {StatusInProduction},
	StatusCompleted:    {StatusShipped},
	StatusCancelled:    {StatusPending, StatusPaid, StatusInProduction, StatusShipped},
}

// IsValid reports whether s is one of the known order statuses.
func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusInProduction, StatusShipped, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed out of s.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether an order in state s may move to target.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, from := range allowedPredecessors[target] {
		if from == s {
			return true
		}
	}
	return false
}

// Order is one customer's custom painting purchase and its fulfillment state.
// Prices are integer minor currency units (cents).
type Order struct {
	ID                uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber       string      `gorm:"uniqueIndex;not null" json:"orderNumber"`
	UserID            uuid.UUID   `gorm:"type:uuid;not null;index" json:"userId"`
	Status            OrderStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	GeneratedImageURL string      `gorm:"type:varchar(1024);not null" json:"generatedImageUrl"`
	OriginalImageURL  *string     `gorm:"type:varchar(1024)" json:"originalImageUrl,omitempty"`
	Prompt            *string     `gorm:"type:text" json:"prompt,omitempty"`

	SizeOptionID     *uuid.UUID `gorm:"type:uuid" json:"sizeOptionId,omitempty"`
	FrameOptionID    *uuid.UUID `gorm:"type:uuid" json:"frameOptionId,omitempty"`
	MountingOptionID *uuid.UUID `gorm:"type:uuid" json:"mountingOptionId,omitempty"`

	BasePrice  int    `gorm:"not null" json:"basePrice"`
	TotalPrice int    `gorm:"not null" json:"totalPrice"`
	Currency   string `gorm:"type:varchar(10);not null" json:"currency"`

	RecipientName      string  `gorm:"type:varchar(100);not null" json:"recipientName"`
	RecipientPhone     string  `gorm:"type:varchar(30);not null" json:"recipientPhone"`
	ShippingAddress    string  `gorm:"type:varchar(255);not null" json:"shippingAddress"`
	ShippingCity       string  `gorm:"type:varchar(100);not null" json:"shippingCity"`
	ShippingProvince   string  `gorm:"type:varchar(100);not null" json:"shippingProvince"`
	ShippingPostalCode *string `gorm:"type:varchar(20)" json:"shippingPostalCode,omitempty"`
	ShippingCountry    string  `gorm:"type:varchar(10);not null" json:"shippingCountry"`

	CustomerNote    *string `gorm:"type:text" json:"customerNote,omitempty"`
	AdminNote       *string `gorm:"type:text" json:"adminNote,omitempty"`
	ShippingCompany *string `gorm:"type:varchar(100)" json:"shippingCompany,omitempty"`
	TrackingNumber  *string `gorm:"type:varchar(100)" json:"trackingNumber,omitempty"`

	// Stripe checkout session reference, set exactly once after session creation.
	SessionID *string `gorm:"uniqueIndex" json:"sessionId,omitempty"`

	PaidAt         *time.Time `json:"paidAt,omitempty"`
	InProductionAt *time.Time `json:"inProductionAt,omitempty"`
	ShippedAt      *time.Time `json:"shippedAt,omitempty"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
	CancelledAt    *time.Time `json:"cancelledAt,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	SizeOption     *ProductOption `gorm:"foreignKey:SizeOptionID" json:"sizeOption,omitempty"`
	FrameOption    *ProductOption `gorm:"foreignKey:FrameOptionID" json:"frameOption,omitempty"`
	MountingOption *ProductOption `gorm:"foreignKey:MountingOptionID" json:"mountingOption,omitempty"`
}

// TimestampColumn returns the order column stamped when status is entered,
// or "" for statuses without one.
func (s OrderStatus) TimestampColumn() string {
	switch s {
	case StatusPaid:
		return "paid_at"
	case StatusInProduction:
		return "in_production_at"
	case StatusShipped:
		return "shipped_at"
	case StatusCompleted:
		return "completed_at"
	case StatusCancelled:
		return "cancelled_at"
	}
	return ""
}
