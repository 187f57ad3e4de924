package main

import (
	"bss/src/config"
	"bss/src/db"
	"bss/src/models"
	"bss/src/types"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func parseSlotWindow(ctx *gin.Context) (*time.Time, *time.Time, error) {
	var start, end *time.Time
	if raw := ctx.Query("start"); raw != "" {
		t, err := time.Parse(config.TIME_PARSE_FORMAT, raw)
		if err != nil {
			return nil, nil, &types.InvalidArgumentError{Reason: fmt.Sprintf("invalid start: %s", raw)}
		}
		start = &t
	}
	if raw := ctx.Query("end"); raw != "" {
		t, err := time.Parse(config.TIME_PARSE_FORMAT, raw)
		if err != nil {
			return nil, nil, &types.InvalidArgumentError{Reason: fmt.Sprintf("invalid end: %s", raw)}
		}
		end = &t
	}
	return start, end, nil
}

func slotWindowScope(q *gorm.DB, start, end *time.Time) *gorm.DB {
	if start != nil {
		q = q.Where("start_time >= ?", *start)
	}
	if end != nil {
		q = q.Where("end_time <= ?", *end)
	}
	return q
}

func slotHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/slots", func(ctx *gin.Context) {
			var body types.CreateSlotRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			startTime, err := time.Parse(config.TIME_PARSE_FORMAT, body.StartTime)
			if err != nil {
				writeError(ctx, &types.InvalidArgumentError{Reason: fmt.Sprintf("invalid start_time: %s", body.StartTime)})
				return
			}
			endTime, err := time.Parse(config.TIME_PARSE_FORMAT, body.EndTime)
			if err != nil {
				writeError(ctx, &types.InvalidArgumentError{Reason: fmt.Sprintf("invalid end_time: %s", body.EndTime)})
				return
			}
			available := true
			if body.Available != nil {
				available = *body.Available
			}
			slot := models.AppointmentSlot{
				StartTime:  startTime,
				EndTime:    endTime,
				Technician: body.Technician,
				Available:  available,
			}
			db := db.GetDb()
			if err := db.Create(&slot).Error; err != nil {
				writeError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": slot})
		}).
		GET("/slots", func(ctx *gin.Context) {
			var page types.PageQuery
			if err := ctx.ShouldBindQuery(&page); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			var slots []models.AppointmentSlot
			var total int64
			if err := db.Model(&models.AppointmentSlot{}).Count(&total).Error; err != nil {
				writeError(ctx, err)
				return
			}
			if err := db.
				Order("start_time asc").
				Offset(page.Page * page.Size).
				Limit(page.Size).
				Find(&slots).
				Error; err != nil {
				writeError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": slots, "count": total, "page": page.Page, "size": page.Size})
		}).
		GET("/slots/available", func(ctx *gin.Context) {
			start, end, err := parseSlotWindow(ctx)
			if err != nil {
				writeError(ctx, err)
				return
			}
			db := db.GetDb()
			var slots []models.AppointmentSlot
			q := db.Where("available = ?", true)
			q = slotWindowScope(q, start, end)
			if err := q.Order("start_time asc").Find(&slots).Error; err != nil {
				writeError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": slots, "count": len(slots)})
		}).
		GET("/slots/technician/:name", func(ctx *gin.Context) {
			name := ctx.Params.ByName("name")
			start, end, err := parseSlotWindow(ctx)
			if err != nil {
				writeError(ctx, err)
				return
			}
			db := db.GetDb()
			var slots []models.AppointmentSlot
			q := db.Where("LOWER(technician) = LOWER(?)", name)
			q = slotWindowScope(q, start, end)
			if err := q.Order("start_time asc").Find(&slots).Error; err != nil {
				writeError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": slots, "count": len(slots)})
		}).
		GET("/slots/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			var slot models.AppointmentSlot
			if err := db.Where(&models.AppointmentSlot{ID: params.ID}).First(&slot).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					writeError(ctx, types.NewNotFoundError("Appointment slot", params.ID))
					return
				}
				writeError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": slot})
		}).
		PUT("/slots/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.CreateSlotRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			startTime, err := time.Parse(config.TIME_PARSE_FORMAT, body.StartTime)
			if err != nil {
				writeError(ctx, &types.InvalidArgumentError{Reason: fmt.Sprintf("invalid start_time: %s", body.StartTime)})
				return
			}
			endTime, err := time.Parse(config.TIME_PARSE_FORMAT, body.EndTime)
			if err != nil {
				writeError(ctx, &types.InvalidArgumentError{Reason: fmt.Sprintf("invalid end_time: %s", body.EndTime)})
				return
			}
			db := db.GetDb()
			var slot models.AppointmentSlot
			if err := db.Where(&models.AppointmentSlot{ID: params.ID}).First(&slot).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					writeError(ctx, types.NewNotFoundError("Appointment slot", params.ID))
					return
				}
				writeError(ctx, err)
				return
			}
			slot.StartTime = startTime
			slot.EndTime = endTime
			slot.Technician = body.Technician
			if body.Available != nil {
				slot.Available = *body.Available
			}
			if err := db.Save(&slot).Error; err != nil {
				writeError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": slot})
		}).
		DELETE("/slots/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			res := db.Delete(&models.AppointmentSlot{}, params.ID)
			if res.Error != nil {
				writeError(ctx, res.Error)
				return
			}
			if res.RowsAffected == 0 {
				writeError(ctx, types.NewNotFoundError("Appointment slot", params.ID))
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": params.ID})
		})
	return g
}
