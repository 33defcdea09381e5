package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type AccessLogMiddleware struct {
	logger *log.Logger
}

func NewAccessLogMiddleware(logger *log.Logger) *AccessLogMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	return &AccessLogMiddleware{logger: logger}
}

func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		rid := c.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
			c.Set("X-Request-ID", rid)
		}

		// Registered ahead of the error middleware, so err is already rendered.
		err := c.Next()

		dur := time.Since(start)
		status := c.Response().StatusCode()

		ip := c.IP()
		method := c.Method()
		path := c.OriginalURL()

		ua := c.Get("User-Agent")

		reqBytes := c.Request().Header.ContentLength()
		respBytes := c.Response().Header.ContentLength()

		caller, _ := c.Locals(CtxCallerKey).(string)
		if caller == "" {
			caller = "-"
		}

		if m != nil && m.logger != nil {
			m.logger.Printf(
				"component=http rid=%s ip=%s caller=%s method=%s path=%s status=%d latency=%s req_bytes=%d resp_bytes=%d ua=%q",
				rid, ip, caller, method, path, status, dur, reqBytes, respBytes, ua,
			)
		}

		return err
	}
}
