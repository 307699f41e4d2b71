package server

import (
	"errors"
	"time"

	"github.com/fathima-sithara/user-auth-service/internal/apperr"
	"github.com/fathima-sithara/user-auth-service/internal/config"
	"github.com/fathima-sithara/user-auth-service/internal/handlers"
	"github.com/fathima-sithara/user-auth-service/internal/routes"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// New assembles the Fiber application: CORS for the frontend origin,
// request logging, the centralized error responder and the route table.
func New(cfg *config.Config, h *handlers.Handler, authRequired fiber.Handler, logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.App.ReadTimeout(),
		WriteTimeout: cfg.App.WriteTimeout(),
		IdleTimeout:  cfg.App.IdleTimeout(),
		ErrorHandler: ErrorHandler(logger),
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.FrontendURL,
		AllowMethods:     "GET,PUT,POST,DELETE",
		AllowCredentials: true,
	}))
	app.Use(zapLoggerMiddleware(logger))

	routes.Setup(app, h, authRequired)

	return app
}

// ErrorHandler normalizes every failure into {success:false, message} with
// the taxonomy status. Known store error signatures are translated; nothing
// internal leaks to the client.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		message := "Internal Server Error"

		var appErr *apperr.Error
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &appErr):
			status = appErr.Status
			message = appErr.Message
		case errors.As(err, &fiberErr):
			status = fiberErr.Code
			message = fiberErr.Message
		case mongo.IsDuplicateKeyError(err):
			status = fiber.StatusBadRequest
			message = "Duplicate field value entered"
		case errors.Is(err, primitive.ErrInvalidHex):
			status = fiber.StatusBadRequest
			message = "Invalid identifier"
		}

		if status >= fiber.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}

		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"message": message,
		})
	}
}

func zapLoggerMiddleware(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		latency := time.Since(start)
		status := c.Response().StatusCode()

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
			zap.Int("status", status),
			zap.Duration("latency", latency),
		}

		if err != nil {
			logger.Error("HTTP Request Error", append(fields, zap.Error(err))...)
			return err
		}

		logger.Info("HTTP Request", fields...)
		return nil
	}
}
