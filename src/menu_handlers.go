package main

import (
	"errors"
	"log"
	"net/http"

	"cbs/src/db"
	"cbs/src/models"
	"cbs/src/types"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func menuHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/menu", func(ctx *gin.Context) {
			var body types.CreateMenuItemRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			item := models.MenuItem{
				Name:        body.Name,
				Description: body.Description,
				Category:    body.Category,
				Price:       *body.Price,
				Available:   true,
			}
			if body.Available != nil {
				item.Available = *body.Available
			}
			gdb := db.GetDb()
			if err := gdb.Create(&item).Error; err != nil {
				log.Printf("Error creating menu item: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": item})
		}).
		PUT("/menu/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateMenuItemRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			updates := map[string]any{}
			if body.Name != nil {
				updates["name"] = *body.Name
			}
			if body.Description != nil {
				updates["description"] = *body.Description
			}
			if body.Category != nil {
				updates["category"] = *body.Category
			}
			if body.Price != nil {
				updates["price"] = *body.Price
			}
			if body.Available != nil {
				updates["available"] = *body.Available
			}
			gdb := db.GetDb()
			var item models.MenuItem
			err := gdb.Transaction(func(tx *gorm.DB) error {
				if err := tx.Where(&models.MenuItem{ID: params.ID}).First(&item).Error; err != nil {
					return err
				}
				if len(updates) == 0 {
					return nil
				}
				return tx.Model(&item).Updates(updates).Error
			})
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				log.Printf("Error updating menu item [%d]: %s\n", params.ID, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": item})
		}).
		DELETE("/menu/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			gdb := db.GetDb()
			res := gdb.Delete(&models.MenuItem{}, params.ID)
			if res.Error != nil {
				log.Printf("Error deleting menu item [%d]: %s\n", params.ID, res.Error.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
				return
			}
			if res.RowsAffected == 0 {
				ctx.Status(http.StatusNotFound)
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		PATCH("/menu/:id/availability", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.MenuItemAvailabilityRequestBody
			_ = ctx.ShouldBindJSON(&body)
			gdb := db.GetDb()
			var item models.MenuItem
			err := gdb.Transaction(func(tx *gorm.DB) error {
				if err := tx.Where(&models.MenuItem{ID: params.ID}).First(&item).Error; err != nil {
					return err
				}
				next := !item.Available
				if body.Available != nil {
					next = *body.Available
				}
				if err := tx.Model(&item).Update("available", next).Error; err != nil {
					return err
				}
				item.Available = next
				return nil
			})
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				log.Printf("Error toggling menu item [%d]: %s\n", params.ID, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": item})
		})
	return g
}
