package models

import "time"

// Store is a tenant storefront
type Store struct {
	ID             string    `json:"id"`
	Slug           string    `json:"slug"`
	Name           string    `json:"name"`
	WhatsAppNumber string    `json:"whatsappNumber"`
	LogoURL        string    `json:"logoUrl,omitempty"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
}
