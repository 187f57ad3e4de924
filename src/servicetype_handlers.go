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

func serviceTypeHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/servicetypes", func(ctx *gin.Context) {
			var body types.CreateServiceTypeRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			serviceType := models.ServiceType{
				Name:                     body.Name,
				EstimatedDurationMinutes: body.EstimatedDurationMinutes,
				Cost:                     body.Cost,
				Description:              body.Description,
			}
			db := db.GetDb()
			if err := db.Create(&serviceType).Error; err != nil {
				writeError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": serviceType})
		}).
		GET("/servicetypes", func(ctx *gin.Context) {
			var page types.PageQuery
			if err := ctx.ShouldBindQuery(&page); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			var serviceTypes []models.ServiceType
			var total int64
			if err := db.Model(&models.ServiceType{}).Count(&total).Error; err != nil {
				writeError(ctx, err)
				return
			}
			if err := db.
				Order("name asc").
				Offset(page.Page * page.Size).
				Limit(page.Size).
				Find(&serviceTypes).
				Error; err != nil {
				writeError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": serviceTypes, "count": total, "page": page.Page, "size": page.Size})
		}).
		GET("/servicetypes/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			var serviceType models.ServiceType
			if err := db.Where(&models.ServiceType{ID: params.ID}).First(&serviceType).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					writeError(ctx, types.NewNotFoundError("Service type", params.ID))
					return
				}
				writeError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": serviceType})
		}).
		PUT("/servicetypes/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.CreateServiceTypeRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			var serviceType models.ServiceType
			if err := db.Where(&models.ServiceType{ID: params.ID}).First(&serviceType).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					writeError(ctx, types.NewNotFoundError("Service type", params.ID))
					return
				}
				writeError(ctx, err)
				return
			}
			serviceType.Name = body.Name
			serviceType.EstimatedDurationMinutes = body.EstimatedDurationMinutes
			serviceType.Cost = body.Cost
			serviceType.Description = body.Description
			if err := db.Save(&serviceType).Error; err != nil {
				writeError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": serviceType})
		}).
		DELETE("/servicetypes/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			res := db.Delete(&models.ServiceType{}, params.ID)
			if res.Error != nil {
				writeError(ctx, res.Error)
				return
			}
			if res.RowsAffected == 0 {
				writeError(ctx, types.NewNotFoundError("Service type", params.ID))
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": params.ID})
		})
	return g
}
