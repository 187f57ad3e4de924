package middlewares

import "github.com/gin-gonic/gin"

// SecureHeaders sets the baseline response headers for an API that only ever
// serves JSON. Responses carry booking and customer data, so caching is off.
func SecureHeaders(ctx *gin.Context) {
	ctx.Header("X-Content-Type-Options", "nosniff")
	ctx.Header("X-Frame-Options", "DENY")
	ctx.Header("Referrer-Policy", "no-referrer")
	ctx.Header("Cache-Control", "no-store")
	ctx.Next()
}
