package models

import "time"

// DraftOrder holds the in-progress customization a user has not yet submitted.
// It lives in Redis keyed by a server-issued token so the flow survives a page
// refresh, replacing the browser-storage hand-off between customize and checkout.
type DraftOrder struct {
	Token              string    `json:"token"`
	UserID             string    `json:"userId"`
	GeneratedImageURL  string    `json:"generatedImageUrl"`
	OriginalImageURL   string    `json:"originalImageUrl,omitempty"`
	Prompt             string    `json:"prompt,omitempty"`
	SizeOptionID       string    `json:"sizeOptionId,omitempty"`
	FrameOptionID      string    `json:"frameOptionId,omitempty"`
	MountingOptionID   string    `json:"mountingOptionId,omitempty"`
	RecipientName      string    `json:"recipientName,omitempty"`
	RecipientPhone     string    `json:"recipientPhone,omitempty"`
	ShippingAddress    string    `json:"shippingAddress,omitempty"`
	ShippingCity       string    `json:"shippingCity,omitempty"`
	ShippingProvince   string    `json:"shippingProvince,omitempty"`
	ShippingPostalCode string    `json:"shippingPostalCode,omitempty"`
	ShippingCountry    string    `json:"shippingCountry,omitempty"`
	CustomerNote       string    `json:"customerNote,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}
