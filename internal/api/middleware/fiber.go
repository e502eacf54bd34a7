package middleware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"main/internal/auth"
	"main/internal/config"
	"main/internal/models"
)

const (
	// HeaderProcessTime carries the elapsed handling time on every
	// response.
	HeaderProcessTime = "X-Process-Time"
	HeaderRequestID   = "X-Request-ID"
	HeaderUser        = "X-User"

	localsKeySubject = "subject"
)

// RequestLoggerFiber wraps every request with timing and status
// capture. It emits one structured record per request, error-level if
// the handler failed, and always propagates the failure unchanged.
func RequestLoggerFiber(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		requestID := uuid.New().String()
		c.Set(HeaderRequestID, requestID)

		log.Info("Request received",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
			zap.String("request_id", requestID),
		)

		err := c.Next()

		elapsed := float64(time.Since(start).Microseconds()) / 1000.0
		c.Set(HeaderProcessTime, fmt.Sprintf("%.2fms", elapsed))

		if err != nil {
			log.Error("Request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("request_id", requestID),
				zap.Float64("elapsed_ms", elapsed),
				zap.Error(err),
			)
			return err
		}

		log.Info("Request completed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("request_id", requestID),
			zap.Int("status", c.Response().StatusCode()),
			zap.Float64("elapsed_ms", elapsed),
		)
		return nil
	}
}

// RecoverFiber converts panics into errors so they flow through the
// logger and error handler like any other failure.
func RecoverFiber(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("Panic recovered",
					zap.String("path", c.Path()),
					zap.Any("error", r),
				)
				err = fiber.NewError(fiber.StatusInternalServerError, "internal server error")
			}
		}()
		return c.Next()
	}
}

// CorsFiber applies the configured CORS policy on the gateway side.
func CorsFiber(cfg *config.Config) fiber.Handler {
	allowMethods := strings.Join(cfg.CORS.AllowedMethods, ",")
	allowHeaders := strings.Join(cfg.CORS.AllowedHeaders, ",")

	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderAccessControlAllowOrigin, c.Get(fiber.HeaderOrigin))
		c.Set(fiber.HeaderAccessControlAllowMethods, allowMethods)
		c.Set(fiber.HeaderAccessControlAllowHeaders, allowHeaders)
		if cfg.CORS.AllowCredentials {
			c.Set(fiber.HeaderAccessControlAllowCredentials, "true")
		}

		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusNoContent)
		}

		return c.Next()
	}
}

// RequireAuth guards protected routes. It extracts the bearer token,
// verifies it, and stores the authenticated subject in the request
// context. Failures are rendered as 401 envelopes, distinguishing an
// expired token from an invalid one.
func RequireAuth(tokens *auth.TokenService, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := auth.ExtractToken(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(
				models.NewErrorEnvelope(models.CodeInvalidToken, "Missing or malformed authorization header"))
		}

		subject, err := tokens.Verify(tokenString)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				return c.Status(fiber.StatusUnauthorized).JSON(
					models.NewErrorEnvelope(models.CodeTokenExpired, "Token has expired. Please login again."))
			}
			return c.Status(fiber.StatusUnauthorized).JSON(
				models.NewErrorEnvelope(models.CodeInvalidToken, "Could not validate token"))
		}

		c.Locals(localsKeySubject, subject)
		c.Set(HeaderUser, subject)

		log.Debug("Token validated", zap.String("subject", subject))
		return c.Next()
	}
}

// Subject returns the authenticated subject set by RequireAuth, or ""
// on unprotected routes.
func Subject(c *fiber.Ctx) string {
	if subject, ok := c.Locals(localsKeySubject).(string); ok {
		return subject
	}
	return ""
}

// ErrorHandlerFiber is the app-level error handler; anything a handler
// returns as an error still reaches the caller as an envelope.
func ErrorHandlerFiber(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}

	return c.Status(code).JSON(models.NewErrorEnvelope(models.CodeServiceError, err.Error()))
}
