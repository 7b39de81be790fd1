package common

import (
	"context"
	"log"
	"time"

	"cbs/src/db"
	"cbs/src/models"
)

// DeactivateExpiredOffers clears the active flag on offers whose validity
// window has closed. Runs on the background scheduler.
func DeactivateExpiredOffers() {
	gdb := db.GetDb()
	res := gdb.
		Model(&models.Offer{}).
		Where("active = ? AND ends_at IS NOT NULL AND ends_at < ?", true, time.Now()).
		Update("active", false)
	if res.Error != nil {
		log.Printf("Error deactivating expired offers: %s\n", res.Error.Error())
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("Deactivated %d expired offers\n", res.RowsAffected)
		InvalidateOffersCache(context.Background())
	}
}

// DeactivateExpiredPromoCodes clears the active flag on promo codes past
// their end date.
func DeactivateExpiredPromoCodes() {
	gdb := db.GetDb()
	res := gdb.
		Model(&models.PromoCode{}).
		Where("active = ? AND ends_at IS NOT NULL AND ends_at < ?", true, time.Now()).
		Update("active", false)
	if res.Error != nil {
		log.Printf("Error deactivating expired promo codes: %s\n", res.Error.Error())
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("Deactivated %d expired promo codes\n", res.RowsAffected)
	}
}
