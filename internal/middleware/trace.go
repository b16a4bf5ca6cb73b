package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const TraceHeader = "X-Trace-Id"

// Trace assigns each request a trace id, echoes it on the response and logs
// the request outcome with latency.
func Trace() fiber.Handler {
	return func(c *fiber.Ctx) error {
		traceID := c.Get(TraceHeader)
		if traceID == "" {
			traceID = uuid.New().String()
		}
		c.Locals("trace_id", traceID)
		c.Set(TraceHeader, traceID)

		start := time.Now()
		err := c.Next()
		latency := time.Since(start)

		slog.Info("request handled",
			"trace_id", traceID,
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"latency_ms", float64(latency.Microseconds())/1000.0,
		)
		return err
	}
}
