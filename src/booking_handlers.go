package main

import (
	"bss/src/common"
	"bss/src/models"
	"bss/src/types"
	"bss/src/utils"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func bookingCacheKey(id uint) string {
	return fmt.Sprintf("booking:%d", id)
}

func bookingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/bookings", func(ctx *gin.Context) {
			var body types.BookingRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			booking, err := utils.CreateBooking(&body)
			if err != nil {
				writeError(ctx, err)
				return
			}
			go common.NotifyBookingCreated(booking)
			ctx.JSON(http.StatusCreated, gin.H{"data": booking})
		}).
		GET("/bookings", func(ctx *gin.Context) {
			var page types.PageQuery
			if err := ctx.ShouldBindQuery(&page); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			bookings, total, err := utils.GetAllBookings(page.Page, page.Size)
			if err != nil {
				writeError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": total, "page": page.Page, "size": page.Size})
		}).
		GET("/bookings/search", func(ctx *gin.Context) {
			var query types.BookingSearchQuery
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			bookings, total, err := utils.SearchBookings(&query)
			if err != nil {
				writeError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": total, "page": query.Page, "size": query.Size})
		}).
		GET("/bookings/customer/:customerId", func(ctx *gin.Context) {
			idParam := ctx.Params.ByName("customerId")
			atoi, err := strconv.Atoi(idParam)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			bookings, err := utils.GetBookingsByCustomer(uint(atoi))
			if err != nil {
				writeError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": len(bookings)})
		}).
		GET("/bookings/status/:status", func(ctx *gin.Context) {
			status := ctx.Params.ByName("status")
			bookings, err := utils.GetBookingsByStatus(status)
			if err != nil {
				writeError(ctx, err)
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
			var cached models.ServiceBooking
			key := bookingCacheKey(params.ID)
			if cacheGet(ctx, key, &cached) {
				ctx.JSON(http.StatusOK, gin.H{"data": cached})
				return
			}
			booking, err := utils.GetBooking(params.ID)
			if err != nil {
				writeError(ctx, err)
				return
			}
			cacheSet(ctx, key, booking)
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		PUT("/bookings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.BookingRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			booking, err := utils.UpdateBooking(params.ID, &body)
			if err != nil {
				writeError(ctx, err)
				return
			}
			cacheDel(ctx, bookingCacheKey(params.ID))
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		DELETE("/bookings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			booking, err := utils.GetBooking(params.ID)
			if err != nil {
				writeError(ctx, err)
				return
			}
			if err := utils.DeleteBooking(params.ID); err != nil {
				writeError(ctx, err)
				return
			}
			cacheDel(ctx, bookingCacheKey(params.ID))
			go common.NotifyBookingCanceled(booking)
			ctx.JSON(http.StatusOK, gin.H{"data": params.ID})
		})
	return g
}
