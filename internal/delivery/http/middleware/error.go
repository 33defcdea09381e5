package middleware

import (
	"errors"
	"log"

	"talent-match/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type AppError struct {
	StatusCode int
	Message    string
	Data       any
	Cause      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewAppError(statusCode int, message string, data any, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Data: data, Cause: cause}
}

type ErrorMiddleware struct {
	logger *log.Logger
}

func NewErrorMiddleware(logger *log.Logger) *ErrorMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	return &ErrorMiddleware{logger: logger}
}

func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				m.logger.Printf("component=http event=panic method=%s path=%s err=%v", c.Method(), c.Path(), r)
				err = response.Error(c, fiber.StatusInternalServerError, "", nil)
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}

		f := resolve(err)
		if f.status >= 500 {
			m.logger.Printf("component=http event=error method=%s path=%s status=%d err=%v", c.Method(), c.Path(), f.status, err)
		}
		return response.Error(c, f.status, f.message, f.data)
	}
}

type failure struct {
	status  int
	message string
	data    any
}

var internalFailure = failure{status: fiber.StatusInternalServerError, message: response.MessageInternalServerError}

// resolve turns a handler error into the envelope sent to the client.
// AppErrors are trusted to carry a client-safe message at any status; bare
// fiber 5xx errors and unknown errors are masked.
func resolve(err error) failure {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if !response.ValidStatus(appErr.StatusCode) {
			return internalFailure
		}
		msg := appErr.Message
		if msg == "" {
			msg = response.Message(appErr.StatusCode)
		}
		return failure{status: appErr.StatusCode, message: msg, data: appErr.Data}
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		if fiberErr.Code >= 500 || !response.ValidStatus(fiberErr.Code) {
			return internalFailure
		}
		msg := fiberErr.Message
		if msg == "" {
			msg = response.Message(fiberErr.Code)
		}
		return failure{status: fiberErr.Code, message: msg}
	}

	return internalFailure
}
