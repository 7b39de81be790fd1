package common

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"cbs/src/db"
	"cbs/src/lib"
	"cbs/src/models"
)

const offersCacheKey = "offers:active"

// ActiveOffers lists offers whose active flag is set and whose validity window
// covers now. Results are served through the redis cache when available.
func ActiveOffers(ctx context.Context) ([]models.Offer, error) {
	rd := lib.GetRedisClient()
	if rd != nil {
		if cached, err := rd.Get(ctx, offersCacheKey).Result(); err == nil {
			var offers []models.Offer
			if err := json.Unmarshal([]byte(cached), &offers); err == nil {
				return offers, nil
			}
		}
	}

	gdb := db.GetDb()
	now := time.Now()
	var offers []models.Offer
	if err := gdb.
		Model(&models.Offer{}).
		Where("active = ?", true).
		Where("starts_at IS NULL OR starts_at <= ?", now).
		Where("ends_at IS NULL OR ends_at >= ?", now).
		Order("created_at DESC").
		Find(&offers).
		Error; err != nil {
		return nil, err
	}

	if rd != nil {
		if payload, err := json.Marshal(offers); err == nil {
			if err := rd.SetEx(ctx, offersCacheKey, payload, 5*time.Minute).Err(); err != nil {
				log.Printf("[redis] Error caching active offers: %s\n", err.Error())
			}
		}
	}
	return offers, nil
}

// InvalidateOffersCache drops the cached active-offers list after a write.
func InvalidateOffersCache(ctx context.Context) {
	rd := lib.GetRedisClient()
	if rd == nil {
		return
	}
	if err := rd.Del(ctx, offersCacheKey).Err(); err != nil {
		log.Printf("[redis] Error invalidating offers cache: %s\n", err.Error())
	}
}
