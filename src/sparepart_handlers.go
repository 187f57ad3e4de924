package main

import (
	"bss/src/db"
	"bss/src/models"
	"bss/src/types"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func sparePartHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/spareparts", func(ctx *gin.Context) {
			var body types.CreateSparePartRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			part := models.SparePart{
				PartName:   body.PartName,
				PartNumber: body.PartNumber,
				Quantity:   body.Quantity,
				Price:      body.Price,
			}
			db := db.GetDb()
			if err := db.Create(&part).Error; err != nil {
				writeError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": part})
		}).
		GET("/spareparts", func(ctx *gin.Context) {
			var page types.PageQuery
			if err := ctx.ShouldBindQuery(&page); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			var parts []models.SparePart
			var total int64
			if err := db.Model(&models.SparePart{}).Count(&total).Error; err != nil {
				writeError(ctx, err)
				return
			}
			if err := db.
				Order("part_name asc").
				Offset(page.Page * page.Size).
				Limit(page.Size).
				Find(&parts).
				Error; err != nil {
				writeError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": parts, "count": total, "page": page.Page, "size": page.Size})
		}).
		GET("/spareparts/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			var part models.SparePart
			if err := db.Where(&models.SparePart{ID: params.ID}).First(&part).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					writeError(ctx, types.NewNotFoundError("Spare part", params.ID))
					return
				}
				writeError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": part})
		}).
		PUT("/spareparts/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.CreateSparePartRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			var part models.SparePart
			if err := db.Where(&models.SparePart{ID: params.ID}).First(&part).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					writeError(ctx, types.NewNotFoundError("Spare part", params.ID))
					return
				}
				writeError(ctx, err)
				return
			}
			part.PartName = body.PartName
			part.PartNumber = body.PartNumber
			part.Quantity = body.Quantity
			part.Price = body.Price
			if err := db.Save(&part).Error; err != nil {
				writeError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": part})
		}).
		PATCH("/spareparts/:id/stock", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateStockRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if *body.Quantity < 0 {
				writeError(ctx, &types.InvalidArgumentError{Reason: "quantity must not be negative"})
				return
			}
			db := db.GetDb()
			res := db.
				Model(&models.SparePart{}).
				Where("id = ?", params.ID).
				Update("quantity", *body.Quantity)
			if res.Error != nil {
				writeError(ctx, res.Error)
				return
			}
			if res.RowsAffected == 0 {
				writeError(ctx, types.NewNotFoundError("Spare part", params.ID))
				return
			}
			var part models.SparePart
			if err := db.First(&part, params.ID).Error; err != nil {
				writeError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": part})
		}).
		DELETE("/spareparts/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			res := db.Delete(&models.SparePart{}, params.ID)
			if res.Error != nil {
				writeError(ctx, res.Error)
				return
			}
			if res.RowsAffected == 0 {
				writeError(ctx, types.NewNotFoundError("Spare part", params.ID))
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": params.ID})
		})
	return g
}
