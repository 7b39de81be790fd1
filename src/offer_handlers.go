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
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

func offerHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/offers", func(ctx *gin.Context) {
			var body types.CreateOfferRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			offer := models.Offer{
				Title:       body.Title,
				Slug:        slug.Make(body.Title),
				Description: body.Description,
				Benefits:    body.Benefits,
				ImageURL:    body.ImageURL,
				Active:      true,
				StartsAt:    body.StartsAt,
				EndsAt:      body.EndsAt,
			}
			if body.Active != nil {
				offer.Active = *body.Active
			}
			gdb := db.GetDb()
			if err := gdb.Create(&offer).Error; err != nil {
				log.Printf("Error creating offer: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			common.InvalidateOffersCache(ctx)
			ctx.JSON(http.StatusCreated, gin.H{"data": offer})
		}).
		PUT("/offers/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateOfferRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			updates := map[string]any{}
			if body.Title != nil {
				updates["title"] = *body.Title
				updates["slug"] = slug.Make(*body.Title)
			}
			if body.Description != nil {
				updates["description"] = *body.Description
			}
			if body.Benefits != nil {
				updates["benefits"] = *body.Benefits
			}
			if body.ImageURL != nil {
				updates["image_url"] = *body.ImageURL
			}
			if body.Active != nil {
				updates["active"] = *body.Active
			}
			if body.StartsAt != nil {
				updates["starts_at"] = *body.StartsAt
			}
			if body.EndsAt != nil {
				updates["ends_at"] = *body.EndsAt
			}
			gdb := db.GetDb()
			var offer models.Offer
			err := gdb.Transaction(func(tx *gorm.DB) error {
				if err := tx.Where(&models.Offer{ID: params.ID}).First(&offer).Error; err != nil {
					return err
				}
				if len(updates) == 0 {
					return nil
				}
				return tx.Model(&offer).Updates(updates).Error
			})
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				log.Printf("Error updating offer [%d]: %s\n", params.ID, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			common.InvalidateOffersCache(ctx)
			ctx.JSON(http.StatusOK, gin.H{"data": offer})
		}).
		DELETE("/offers/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			gdb := db.GetDb()
			res := gdb.Delete(&models.Offer{}, params.ID)
			if res.Error != nil {
				log.Printf("Error deleting offer [%d]: %s\n", params.ID, res.Error.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
				return
			}
			if res.RowsAffected == 0 {
				ctx.Status(http.StatusNotFound)
				return
			}
			common.InvalidateOffersCache(ctx)
			ctx.Status(http.StatusNoContent)
		})
	return g
}
