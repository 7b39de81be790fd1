package main

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/http"

	"cbs/src/common"
	"cbs/src/db"
	"cbs/src/models"
	"cbs/src/types"
	"cbs/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func loadReceipt(id uint) (*models.Receipt, error) {
	gdb := db.GetDb()
	var receipt models.Receipt
	if err := gdb.
		Model(&models.Receipt{}).
		Where(&models.Receipt{ID: id}).
		Preload("Booking").
		Preload("Booking.Items.MenuItem").
		First(&receipt).
		Error; err != nil {
		return nil, err
	}
	return &receipt, nil
}

func receiptHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/receipts/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			receipt, err := loadReceipt(params.ID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			if !canAccess(ctx, receipt.Booking.UserID) {
				ctx.Status(http.StatusForbidden)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": receipt})
		}).
		GET("/receipts/:id/pdf", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			receipt, err := loadReceipt(params.ID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			if !canAccess(ctx, receipt.Booking.UserID) {
				ctx.Status(http.StatusForbidden)
				return
			}
			var buf bytes.Buffer
			if err := utils.RenderReceiptPDF(&buf, receipt); err != nil {
				log.Printf("Error rendering receipt [%d]: %s\n", params.ID, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", receipt.ReceiptNumber))
			ctx.Data(http.StatusOK, "application/pdf", buf.Bytes())
		})
	return g
}

func adminReceiptHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/receipts", func(ctx *gin.Context) {
			gdb := db.GetDb()
			var receipts []models.Receipt
			if err := gdb.
				Model(&models.Receipt{}).
				Preload("Booking").
				Order("created_at DESC").
				Find(&receipts).
				Error; err != nil {
				log.Printf("Error listing receipts: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": receipts, "count": len(receipts)})
		}).
		POST("/receipts/generate", func(ctx *gin.Context) {
			var body types.GenerateReceiptRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			receipt, status, err := common.GenerateReceipt(&body)
			if err != nil {
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(status, gin.H{"data": receipt})
		}).
		PATCH("/receipts/:id/payment", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateReceiptPaymentRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			updates := map[string]any{"payment_status": body.PaymentStatus}
			if body.PaymentMethod != nil {
				updates["payment_method"] = *body.PaymentMethod
			}
			gdb := db.GetDb()
			var receipt models.Receipt
			err := gdb.Transaction(func(tx *gorm.DB) error {
				if err := tx.Where(&models.Receipt{ID: params.ID}).First(&receipt).Error; err != nil {
					return err
				}
				return tx.Model(&receipt).Updates(updates).Error
			})
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				log.Printf("Error updating receipt [%d] payment: %s\n", params.ID, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": receipt})
		})
	return g
}
