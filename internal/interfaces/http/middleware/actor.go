package middleware

import (
	"strings"

	"github.com/bottling/backend/internal/domain/inventory"
	"github.com/bottling/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
)

const maxHeaderValueLength = 128

// Actor reads the acting employee and the idempotency key from headers.
// A missing employee header leaves the employee unset so a body value can win.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := headerValue(c, EmployeeIDHeader); id != "" {
			c.Set(EmployeeIDKey, id)
			c.Request = c.Request.WithContext(logger.WithEmployeeID(c.Request.Context(), id))
		}
		if key := headerValue(c, IdempotencyKeyHeader); key != "" {
			c.Set(IdempotencyKeyKey, key)
		}
		c.Next()
	}
}

// ResolveEmployeeID picks the body value, then the header, then UNKNOWN
func ResolveEmployeeID(c *gin.Context, fromBody string) string {
	if id := strings.TrimSpace(fromBody); id != "" {
		return id
	}
	if id := c.GetString(EmployeeIDKey); id != "" {
		return id
	}
	return inventory.UnknownEmployee
}

// GetIdempotencyKey returns the Idempotency-Key header, or ""
func GetIdempotencyKey(c *gin.Context) string {
	return c.GetString(IdempotencyKeyKey)
}

func headerValue(c *gin.Context, name string) string {
	v := strings.TrimSpace(c.GetHeader(name))
	if len(v) > maxHeaderValueLength {
		return ""
	}
	return v
}
