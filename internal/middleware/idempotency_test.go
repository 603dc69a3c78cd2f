package middleware

import (
	"io"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupIdempotencyApp(t *testing.T) (*fiber.App, *miniredis.Miniredis, *atomic.Int32) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	var calls atomic.Int32
	app := fiber.New()
	app.Use(IdempotencyMiddleware(client, time.Minute))
	app.Post("/renew", func(c *fiber.Ctx) error {
		calls.Add(1)
		return c.JSON(fiber.Map{"call": calls.Load()})
	})

	return app, mr, &calls
}

func TestIdempotencyReplaysCachedResponse(t *testing.T) {
	app, mr, calls := setupIdempotencyApp(t)

	doPost := func(correlationID string) (*http.Response, string) {
		req, _ := http.NewRequest("POST", "/renew", nil)
		if correlationID != "" {
			req.Header.Set("X-Correlation-ID", correlationID)
		}
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		return resp, string(body)
	}

	resp, first := doPost("renew-123")
	assert.Equal(t, 200, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("X-Idempotent-Replay"))

	// The write-back is async; wait for the key to land before re-posting,
	// otherwise the handler legitimately runs a second time.
	require.Eventually(t, func() bool {
		return mr.Exists("idempotency:renew-123")
	}, 2*time.Second, 10*time.Millisecond)

	resp, body := doPost("renew-123")
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "true", resp.Header.Get("X-Idempotent-Replay"))
	assert.Equal(t, first, body)
	assert.Equal(t, int32(1), calls.Load())
}

func TestIdempotencySkipsWithoutCorrelationID(t *testing.T) {
	app, _, calls := setupIdempotencyApp(t)

	for i := 0; i < 3; i++ {
		req, _ := http.NewRequest("POST", "/renew", nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	}

	assert.Equal(t, int32(3), calls.Load())
}
