package models

import (
	"time"

	"cbs/src/types"
)

type Offer struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	Title       string     `json:"title,omitempty"`
	Slug        string     `gorm:"uniqueIndex" json:"slug,omitempty"`
	Description string     `json:"description,omitempty"`
	Benefits    string     `json:"benefits,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	Active      bool       `gorm:"default:true" json:"active"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`

	types.Timestamps
}

// ActiveWithin reports whether the offer is active and its validity window
// covers now. A nil bound defaults to epoch start or the far future.
func (o *Offer) ActiveWithin(now time.Time) bool {
	if !o.Active {
		return false
	}
	if o.StartsAt != nil && now.Before(*o.StartsAt) {
		return false
	}
	if o.EndsAt != nil && now.After(*o.EndsAt) {
		return false
	}
	return true
}
