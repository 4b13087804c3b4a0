package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"monthly-club.backend/pkg/logger"
	"monthly-club.backend/pkg/redis"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	// LockDuration is the time we hold the lock while processing
	LockDuration = 30 * time.Second

	idempotencyProcessing = "processing"
)

// IdempotencyStore is the subset of the redis store used for replay
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
	Del(ctx context.Context, key string) error
}

type cachedResponse struct {
	Status int    `json:"status"`
	Body   string `json:"body"`
}

type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyMiddleware replays the stored response of a successful request
// carrying the same Idempotency-Key for the same user. It must run after
// AuthMiddleware. A nil store disables it.
func IdempotencyMiddleware(store IdempotencyStore, retention time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" || store == nil {
			c.Next()
			return
		}

		userID, _ := GetUserID(c)
		storageKey := "idempotency:" + userID.String() + ":" + c.Request.Method + ":" + c.FullPath() + ":" + key
		ctx := c.Request.Context()

		acquired, err := store.SetNX(ctx, storageKey, idempotencyProcessing, LockDuration)
		if err != nil {
			logger.Warn(ctx, "Idempotency store unavailable", zap.Error(err))
			c.Next()
			return
		}

		if !acquired {
			val, err := store.Get(ctx, storageKey)
			if err != nil && !errors.Is(err, redis.ErrMiss) {
				logger.Warn(ctx, "Idempotency store unavailable", zap.Error(err))
				c.Next()
				return
			}
			var cached cachedResponse
			if err != nil || val == idempotencyProcessing || json.Unmarshal([]byte(val), &cached) != nil {
				c.AbortWithStatusJSON(http.StatusConflict, gin.H{
					"code":    "IDEMPOTENCY_CONFLICT",
					"message": "Request already in progress",
				})
				return
			}
			c.Header("X-Idempotency-Hit", "true")
			c.Data(cached.Status, "application/json; charset=utf-8", []byte(cached.Body))
			c.Abort()
			return
		}

		w := &responseWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			// Failed requests may be retried with the same key
			_ = store.Del(ctx, storageKey)
			return
		}
		payload, _ := json.Marshal(cachedResponse{Status: status, Body: w.body.String()})
		if err := store.Set(ctx, storageKey, string(payload), retention); err != nil {
			logger.Warn(ctx, "Failed to store idempotent response", zap.Error(err))
		}
	}
}
