package main

import (
	"bss/src/db"
	"bss/src/models"
	"bss/src/types"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func customerCacheKey(id uint) string {
	return fmt.Sprintf("customer:%d", id)
}

func customerHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/customers", func(ctx *gin.Context) {
			var body types.CreateCustomerRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			customer := models.Customer{
				Name:      body.Name,
				Email:     body.Email,
				Phone:     body.Phone,
				BikeModel: body.BikeModel,
			}
			db := db.GetDb()
			if err := db.Create(&customer).Error; err != nil {
				writeError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": customer})
		}).
		GET("/customers", func(ctx *gin.Context) {
			var page types.PageQuery
			if err := ctx.ShouldBindQuery(&page); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			var customers []models.Customer
			var total int64
			if err := db.Model(&models.Customer{}).Count(&total).Error; err != nil {
				writeError(ctx, err)
				return
			}
			if err := db.
				Order("name asc").
				Offset(page.Page * page.Size).
				Limit(page.Size).
				Find(&customers).
				Error; err != nil {
				writeError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": customers, "count": total, "page": page.Page, "size": page.Size})
		}).
		GET("/customers/search", func(ctx *gin.Context) {
			var query types.CustomerSearchQuery
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			q := db.Model(&models.Customer{})
			var conds []string
			var args []any
			if query.Name != "" {
				conds = append(conds, "LOWER(name) LIKE LOWER(?)")
				args = append(args, query.Name+"%")
			}
			if query.Email != "" {
				conds = append(conds, "LOWER(email) LIKE LOWER(?)")
				args = append(args, query.Email+"%")
			}
			if query.Phone != "" {
				conds = append(conds, "phone LIKE ?")
				args = append(args, query.Phone+"%")
			}
			if len(conds) > 0 {
				q = q.Where(strings.Join(conds, " OR "), args...)
			}
			var total int64
			if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
				writeError(ctx, err)
				return
			}
			var customers []models.Customer
			if err := q.
				Order("name asc").
				Offset(query.Page * query.Size).
				Limit(query.Size).
				Find(&customers).
				Error; err != nil {
				writeError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": customers, "count": total, "page": query.Page, "size": query.Size})
		}).
		GET("/customers/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var customer models.Customer
			key := customerCacheKey(params.ID)
			if cacheGet(ctx, key, &customer) {
				ctx.JSON(http.StatusOK, gin.H{"data": customer})
				return
			}
			db := db.GetDb()
			if err := db.Where(&models.Customer{ID: params.ID}).First(&customer).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					writeError(ctx, types.NewNotFoundError("Customer", params.ID))
					return
				}
				writeError(ctx, err)
				return
			}
			cacheSet(ctx, key, &customer)
			ctx.JSON(http.StatusOK, gin.H{"data": customer})
		}).
		PUT("/customers/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.CreateCustomerRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			var customer models.Customer
			if err := db.Where(&models.Customer{ID: params.ID}).First(&customer).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					writeError(ctx, types.NewNotFoundError("Customer", params.ID))
					return
				}
				writeError(ctx, err)
				return
			}
			customer.Name = body.Name
			customer.Email = body.Email
			customer.Phone = body.Phone
			customer.BikeModel = body.BikeModel
			if err := db.Save(&customer).Error; err != nil {
				writeError(ctx, err)
				return
			}
			cacheDel(ctx, customerCacheKey(params.ID))
			ctx.JSON(http.StatusOK, gin.H{"data": customer})
		}).
		DELETE("/customers/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			res := db.Delete(&models.Customer{}, params.ID)
			if res.Error != nil {
				writeError(ctx, res.Error)
				return
			}
			if res.RowsAffected == 0 {
				writeError(ctx, types.NewNotFoundError("Customer", params.ID))
				return
			}
			cacheDel(ctx, customerCacheKey(params.ID))
			ctx.JSON(http.StatusOK, gin.H{"data": params.ID})
		})
	return g
}
