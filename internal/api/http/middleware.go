package http

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/spec-kit/department-service/internal/observability"
	apperrors "github.com/spec-kit/department-service/pkg/util"
)

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,PATCH,HEAD,OPTIONS",
		AllowHeaders: "*",
	}))
	app.Use(observability.RequestLogger(logger, metrics))
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(errorHandlingMiddleware(logger, metrics))
}

// ErrorHandler renders errors that escape the middleware chain as envelopes.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		env, _ := envelopeFor(err)
		if env.StatusCode >= fiber.StatusInternalServerError {
			logger.Error("request failed", zap.Error(err))
		}
		return c.Status(env.StatusCode).JSON(env)
	}
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(fmt.Errorf("%v", r))
			}
			if err != nil {
				env, code := envelopeFor(err)
				metrics.RecordError(routePath(c), c.Method(), code)
				if env.StatusCode >= fiber.StatusInternalServerError {
					logger.Error("request failed", zap.Error(err))
				}
				c.Status(env.StatusCode)
				_ = c.JSON(env)
				err = nil
			}
		}()
		return c.Next()
	}
}

// envelopeFor maps framework errors (unknown route, bad method) and domain
// errors to an envelope plus the error code used as a metrics label.
func envelopeFor(err error) (*apperrors.Envelope, string) {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return apperrors.Fail(fiberErr.Code, fiberErr.Message, nil), fmt.Sprintf("HTTP_%d", fiberErr.Code)
	}
	domainErr := apperrors.ToDomainError(err)
	return apperrors.FromError(domainErr), domainErr.Code
}

func routePath(c *fiber.Ctx) string {
	if route := c.Route(); route != nil && route.Path != "" {
		return route.Path
	}
	return c.Path()
}
