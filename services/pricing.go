package services

import (
	"errors"

	"wheatstraw-backend/models"
)

var (
	errInvalidBasePrice = errors.New("base price must be positive")
	errNegativeTotal    = errors.New("selected options produce a negative total")
)

// ComputeTotal returns basePrice plus the signed adjustments of the selected
// options. A category without a selection simply contributes nothing. Pure;
// a combination that would go below zero is rejected.
func ComputeTotal(basePrice int, selected []*models.ProductOption) (int, error) {
	if basePrice <= 0 {
		return 0, errInvalidBasePrice
	}
	total := basePrice
	for _, opt := range selected {
		if opt == nil {
			continue
		}
		total += opt.PriceAdjustment
	}
	if total < 0 {
		return 0, errNegativeTotal
	}
	return total, nil
}
