package models

import (
	"strings"
	"time"
)

// PlaceholderImage is served for laptops without any uploaded image.
const PlaceholderImage = "/placeholder.svg?height=300&width=400"

type Laptop struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Brand         string    `json:"brand"`
	Price         string    `json:"price"`
	OriginalPrice *string   `json:"original_price,omitempty"`
	Images        []string  `json:"images"`
	Rating        float64   `json:"rating"`
	Reviews       int       `json:"reviews"`
	Badge         string    `json:"badge"`
	Specs         []string  `json:"specs"`
	InStock       bool      `json:"in_stock"`
	Description   *string   `json:"description,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PrimaryImage returns the first image or the placeholder.
func (l Laptop) PrimaryImage() string {
	for _, img := range l.Images {
		if strings.TrimSpace(img) != "" {
			return img
		}
	}
	return PlaceholderImage
}

// LaptopInput is the body of a create request. Pointer fields are optional
// and receive catalog defaults when nil.
type LaptopInput struct {
	Name          string   `json:"name"`
	Brand         string   `json:"brand"`
	Price         string   `json:"price"`
	OriginalPrice *string  `json:"original_price,omitempty"`
	Images        []string `json:"images,omitempty"`
	Image         string   `json:"image,omitempty"` // legacy single-image shape
	Rating        *float64 `json:"rating,omitempty"`
	Reviews       *int     `json:"reviews,omitempty"`
	Badge         *string  `json:"badge,omitempty"`
	Specs         []string `json:"specs,omitempty"`
	InStock       *bool    `json:"in_stock,omitempty"`
	Description   *string  `json:"description,omitempty"`
}

// LaptopPatch carries a partial update. A nil field is left unchanged; a
// non-nil field is written as given. An empty OriginalPrice or Description
// clears the value.
type LaptopPatch struct {
	Name          *string   `json:"name,omitempty"`
	Brand         *string   `json:"brand,omitempty"`
	Price         *string   `json:"price,omitempty"`
	OriginalPrice *string   `json:"original_price,omitempty"`
	Images        *[]string `json:"images,omitempty"`
	Rating        *float64  `json:"rating,omitempty"`
	Reviews       *int      `json:"reviews,omitempty"`
	Badge         *string   `json:"badge,omitempty"`
	Specs         *[]string `json:"specs,omitempty"`
	InStock       *bool     `json:"in_stock,omitempty"`
	Description   *string   `json:"description,omitempty"`
}

// Apply writes the non-nil fields of p onto l.
func (p LaptopPatch) Apply(l *Laptop) {
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.Brand != nil {
		l.Brand = *p.Brand
	}
	if p.Price != nil {
		l.Price = *p.Price
	}
	if p.OriginalPrice != nil {
		l.OriginalPrice = optional(*p.OriginalPrice)
	}
	if p.Images != nil {
		l.Images = append([]string{}, (*p.Images)...)
	}
	if p.Rating != nil {
		l.Rating = *p.Rating
	}
	if p.Reviews != nil {
		l.Reviews = *p.Reviews
	}
	if p.Badge != nil {
		l.Badge = *p.Badge
	}
	if p.Specs != nil {
		l.Specs = append([]string{}, (*p.Specs)...)
	}
	if p.InStock != nil {
		l.InStock = *p.InStock
	}
	if p.Description != nil {
		l.Description = optional(*p.Description)
	}
}

// optional maps an explicitly cleared value to nil.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Empty reports whether the patch changes nothing.
func (p LaptopPatch) Empty() bool {
	return p == LaptopPatch{}
}
