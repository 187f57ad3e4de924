package main

import (
	"bss/src/lib"
	"bss/src/types"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const cacheTTL = 5 * time.Minute

// writeError maps workflow errors onto HTTP statuses. Anything outside the
// known taxonomy is a 500.
func writeError(ctx *gin.Context, err error) {
	var notFound *types.NotFoundError
	var stock *types.InsufficientStockError
	var invalid *types.InvalidArgumentError
	switch {
	case errors.As(err, &notFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, types.ErrSlotUnavailable),
		errors.Is(err, types.ErrInsufficientSlotDuration),
		errors.As(err, &stock),
		errors.As(err, &invalid):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		// Detail stays in the server log; the response body must not leak it.
		log.Printf("[http] unexpected error: %s\n", err.Error())
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// cacheGet reads a cached entity. A missing redis client or any redis error
// is treated as a miss.
func cacheGet(ctx context.Context, key string, out any) bool {
	rdb := lib.GetRedisClient()
	if rdb == nil {
		return false
	}
	val, err := rdb.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(val), out) == nil
}

func cacheSet(ctx context.Context, key string, v any) {
	rdb := lib.GetRedisClient()
	if rdb == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := rdb.Set(ctx, key, b, cacheTTL).Err(); err != nil {
		log.Printf("[cache] set %s failed: %s\n", key, err.Error())
	}
}

func cacheDel(ctx context.Context, keys ...string) {
	rdb := lib.GetRedisClient()
	if rdb == nil {
		return
	}
	if err := rdb.Del(ctx, keys...).Err(); err != nil {
		log.Printf("[cache] del failed: %s\n", err.Error())
	}
}
