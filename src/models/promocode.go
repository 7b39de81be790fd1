package models

import (
	"errors"
	"time"

	"cbs/src/types"
)

var (
	ErrPromoInactive   = errors.New("promo code is not active")
	ErrPromoNotStarted = errors.New("promo code is not yet valid")
	ErrPromoExpired    = errors.New("promo code has expired")
	ErrPromoExhausted  = errors.New("promo code usage limit reached")
)

type PromoCode struct {
	ID              uint       `gorm:"primarykey" json:"id"`
	Code            string     `gorm:"uniqueIndex" json:"code,omitempty"`
	DiscountPercent uint       `json:"discount_percent,omitempty"`
	UsageLimit      *uint      `json:"usage_limit,omitempty"`
	UsedCount       uint       `json:"used_count"`
	Active          bool       `gorm:"default:true" json:"active"`
	StartsAt        *time.Time `json:"starts_at,omitempty"`
	EndsAt          *time.Time `json:"ends_at,omitempty"`

	types.Timestamps
}

// Validate checks the active flag, then the validity window, then usage-limit
// exhaustion. The first failing check wins.
func (p *PromoCode) Validate(now time.Time) error {
	if !p.Active {
		return ErrPromoInactive
	}
	if p.StartsAt != nil && now.Before(*p.StartsAt) {
		return ErrPromoNotStarted
	}
	if p.EndsAt != nil && now.After(*p.EndsAt) {
		return ErrPromoExpired
	}
	if p.UsageLimit != nil && p.UsedCount >= *p.UsageLimit {
		return ErrPromoExhausted
	}
	return nil
}
