package boot

import (
	"log"
	"os"
	"time"

	"cbs/src/common"
	"cbs/src/db"
	"cbs/src/lib"
	"cbs/src/models"
	"cbs/src/types"
	"cbs/src/utils"
)

func InitDb() {
	gdb := db.GetDb()
	if err := gdb.AutoMigrate(
		&models.User{},
		&models.MenuItem{},
		&models.Offer{},
		&models.PromoCode{},
		&models.Booking{},
		&models.BookingItem{},
		&models.Receipt{},
	); err != nil {
		log.Fatalf("Migration failed: %s", err)
	}
	log.Println("Migration complete")
}

// SeedAdmin ensures an administrator account exists. Controlled via
// ADMIN_EMAIL and ADMIN_PASSWORD; skipped when either is unset.
func SeedAdmin() {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		log.Printf("Error seeding admin account: %s\n", err.Error())
		return
	}
	gdb := db.GetDb()
	admin := models.User{
		Name:     "Administrator",
		Email:    email,
		Password: hashed,
		Role:     types.ROLE_ADMIN,
	}
	if err := gdb.
		Where(&models.User{Email: email}).
		FirstOrCreate(&admin).
		Error; err != nil {
		log.Printf("Error seeding admin account: %s\n", err.Error())
	}
}

func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Printf("Error initializing scheduler: %s\n", err.Error())
		return
	}
	lib.CreateCronJob(common.DeactivateExpiredOffers, time.Hour)
	lib.CreateCronJob(common.DeactivateExpiredPromoCodes, time.Hour)
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		return
	}
	if err := sched.Shutdown(); err != nil {
		log.Printf("Error shutting down scheduler: %s\n", err.Error())
	}
}
