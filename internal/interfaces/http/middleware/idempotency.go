package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bakeryaid/backend/internal/domain/shared"
	"github.com/bakeryaid/backend/internal/infrastructure/logger"
	"github.com/bakeryaid/backend/internal/interfaces/http/dto"
)

// IdempotencyKeyHeader is the request header naming a submission
const IdempotencyKeyHeader = "Idempotency-Key"

// MaxIdempotencyKeyLength bounds client-supplied keys
const MaxIdempotencyKeyLength = 128

// Idempotency rejects a repeated POST, PUT or DELETE that carries an
// Idempotency-Key already claimed for the same method and path. The key is
// released when the handler does not answer 2xx so the client can retry.
// Requests without the header are not guarded. If the store fails the
// request proceeds unguarded.
func Idempotency(store shared.IdempotencyStore, ttl time.Duration) gin.HandlerFunc {
	if store == nil {
		return passThrough
	}

	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
		default:
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > MaxIdempotencyKeyLength {
			abortWithError(c, http.StatusBadRequest, dto.ErrCodeBadRequest,
				"Idempotency-Key must be at most 128 characters")
			return
		}

		ctx := c.Request.Context()
		scoped := idempotencyScope(c.Request.Method, c.Request.URL.Path, key)
		claimed, err := store.MarkProcessed(ctx, scoped, ttl)
		if err != nil {
			logger.L(ctx).Warn("Idempotency store unavailable, request not guarded",
				zap.String("idempotency_key", key), zap.Error(err))
			c.Next()
			return
		}
		if !claimed {
			abortWithError(c, http.StatusConflict, dto.ErrCodeDuplicateSubmission,
				"This request was already submitted")
			return
		}

		c.Next()

		if status := c.Writer.Status(); status < 200 || status >= 300 {
			// The request context may be past its deadline here.
			releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
			defer cancel()
			if err := store.Release(releaseCtx, scoped); err != nil {
				logger.L(ctx).Warn("Failed to release idempotency key",
					zap.String("idempotency_key", key), zap.Error(err))
			}
		}
	}
}

func idempotencyScope(method, path, key string) string {
	return method + " " + path + " " + key
}
