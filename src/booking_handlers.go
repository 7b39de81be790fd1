package main

import (
	"errors"
	"log"
	"net/http"

	"cbs/src/common"
	"cbs/src/db"
	"cbs/src/models"
	"cbs/src/types"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func bookingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/bookings", func(ctx *gin.Context) {
			gdb := db.GetDb()
			query := gdb.Model(&models.Booking{}).Preload("Items").Order("created_at DESC")
			if ctx.GetString("role") != types.ROLE_ADMIN {
				query = query.Where("user_id = ?", ctx.GetUint("id"))
			}
			var bookings []models.Booking
			if err := query.Find(&bookings).Error; err != nil {
				log.Printf("Error listing bookings: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": len(bookings)})
		}).
		GET("/bookings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			gdb := db.GetDb()
			var booking models.Booking
			if err := gdb.
				Model(&models.Booking{}).
				Where(&models.Booking{ID: params.ID}).
				Preload("Items.MenuItem").
				First(&booking).
				Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			if !canAccess(ctx, booking.UserID) {
				ctx.Status(http.StatusForbidden)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		POST("/bookings", func(ctx *gin.Context) {
			var body types.CreateBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			booking, status, err := common.CreateBooking(&body, ctx.GetUint("id"))
			if err != nil {
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(status, gin.H{"data": booking})
		}).
		PUT("/bookings/:id/cancel", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			gdb := db.GetDb()
			var booking models.Booking
			if err := gdb.Model(&models.Booking{}).Where(&models.Booking{ID: params.ID}).First(&booking).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			if !canAccess(ctx, booking.UserID) {
				ctx.Status(http.StatusForbidden)
				return
			}
			status, err := common.CancelBooking(params.ID)
			if err != nil {
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(status, gin.H{"data": gin.H{"id": params.ID, "status": types.BOOKING_CANCELLED}})
		})
	return g
}

var bookingTransitions = map[types.BookingStatus][]types.BookingStatus{
	types.BOOKING_PENDING:   {types.BOOKING_CONFIRMED, types.BOOKING_CANCELLED},
	types.BOOKING_CONFIRMED: {types.BOOKING_COMPLETED, types.BOOKING_CANCELLED},
}

func adminBookingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		PATCH("/bookings/:id/status", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateBookingStatusRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			gdb := db.GetDb()
			var booking models.Booking
			err := gdb.Transaction(func(tx *gorm.DB) error {
				if err := tx.Model(&models.Booking{}).Where(&models.Booking{ID: params.ID}).First(&booking).Error; err != nil {
					return err
				}
				allowed := false
				for _, next := range bookingTransitions[booking.Status] {
					if next == body.Status {
						allowed = true
						break
					}
				}
				if !allowed {
					return errors.New("invalid status transition")
				}
				if err := tx.
					Model(&models.Booking{}).
					Where(&models.Booking{ID: params.ID}).
					Update("status", body.Status).
					Error; err != nil {
					return err
				}
				booking.Status = body.Status
				return nil
			})
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		})
	return g
}
