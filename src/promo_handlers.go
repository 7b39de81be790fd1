package main

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"cbs/src/db"
	"cbs/src/models"
	"cbs/src/types"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var errPromoCodeExists = errors.New("promo code already exists")

func promoHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/promo-codes", func(ctx *gin.Context) {
			gdb := db.GetDb()
			var codes []models.PromoCode
			if err := gdb.Model(&models.PromoCode{}).Order("created_at DESC").Find(&codes).Error; err != nil {
				log.Printf("Error listing promo codes: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": codes, "count": len(codes)})
		}).
		POST("/promo-codes", func(ctx *gin.Context) {
			var body types.CreatePromoCodeRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			code := strings.ToUpper(strings.TrimSpace(body.Code))
			gdb := db.GetDb()
			promo := models.PromoCode{
				Code:            code,
				DiscountPercent: body.DiscountPercent,
				UsageLimit:      body.UsageLimit,
				Active:          true,
				StartsAt:        body.StartsAt,
				EndsAt:          body.EndsAt,
			}
			if body.Active != nil {
				promo.Active = *body.Active
			}
			err := gdb.Transaction(func(tx *gorm.DB) error {
				var existing int64
				if err := tx.Model(&models.PromoCode{}).Where("code = ?", code).Count(&existing).Error; err != nil {
					return err
				}
				if existing > 0 {
					return errPromoCodeExists
				}
				return tx.Create(&promo).Error
			})
			if err != nil {
				log.Printf("Error creating promo code %q: %s\n", code, err.Error())
				if errors.Is(err, errPromoCodeExists) || errors.Is(err, gorm.ErrDuplicatedKey) {
					ctx.JSON(http.StatusConflict, gin.H{"error": errPromoCodeExists.Error()})
					return
				}
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": promo})
		}).
		PATCH("/promo-codes/:id/toggle", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			gdb := db.GetDb()
			var promo models.PromoCode
			err := gdb.Transaction(func(tx *gorm.DB) error {
				if err := tx.Where(&models.PromoCode{ID: params.ID}).First(&promo).Error; err != nil {
					return err
				}
				next := !promo.Active
				if err := tx.Model(&promo).Update("active", next).Error; err != nil {
					return err
				}
				promo.Active = next
				return nil
			})
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				log.Printf("Error toggling promo code [%d]: %s\n", params.ID, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": promo})
		})
	return g
}

// promoValidateRoute is public: customers check a code before booking.
func promoValidateRoute(g *gin.RouterGroup) {
	g.POST("/promo-codes/validate", func(ctx *gin.Context) {
		var body types.ValidatePromoCodeRequestBody
		if err := ctx.ShouldBindJSON(&body); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		code := strings.ToUpper(strings.TrimSpace(body.Code))
		gdb := db.GetDb()
		var promo models.PromoCode
		if err := gdb.Where(&models.PromoCode{Code: code}).First(&promo).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ctx.JSON(http.StatusNotFound, gin.H{"valid": false, "reason": "unknown promo code"})
				return
			}
			log.Printf("Error validating promo code %q: %s\n", code, err.Error())
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if err := promo.Validate(time.Now()); err != nil {
			ctx.JSON(http.StatusOK, gin.H{"valid": false, "reason": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"valid": true, "discount_percent": promo.DiscountPercent})
	})
}
