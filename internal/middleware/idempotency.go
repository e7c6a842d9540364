package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/mansoorceksport/liftlog/internal/repository"
)

// ResponseCache is the subset of the Redis cache used for replaying responses
type ResponseCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type cachedResponse struct {
	Status int    `json:"status"`
	Body   []byte `json:"body"`
}

// IdempotencyMiddleware replays the stored response of a POST carrying an
// X-Correlation-ID already seen for the same user within ttl. Retried
// submissions therefore never log a performance twice.
func IdempotencyMiddleware(cache ResponseCache, ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodPost {
			return c.Next()
		}

		correlationID := c.Get("X-Correlation-ID")
		if correlationID == "" {
			return c.Next()
		}

		key := "idempotency:" + UserID(c) + ":" + correlationID
		ctx := c.UserContext()

		var cached cachedResponse
		err := cache.Get(ctx, key, &cached)
		if err == nil && len(cached.Body) > 0 {
			c.Set("X-Idempotent-Replay", "true")
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.Status(cached.Status).Send(cached.Body)
		}
		if err != nil && !errors.Is(err, repository.ErrCacheMiss) {
			log.WithError(err).Warn("idempotency lookup failed, processing request")
		}

		if err := c.Next(); err != nil {
			return err
		}

		status := c.Response().StatusCode()
		if status < 200 || status >= 300 {
			return nil
		}
		body := append([]byte(nil), c.Response().Body()...)
		if len(body) == 0 {
			return nil
		}

		setCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := cache.Set(setCtx, key, cachedResponse{Status: status, Body: body}, ttl); err != nil {
			log.WithError(err).Warn("failed to store idempotent response")
		}
		return nil
	}
}
