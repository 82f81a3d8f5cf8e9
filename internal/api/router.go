package api

import (
	"errors"

	"two-doc-checker/docs"
	"two-doc-checker/internal/api/handlers"
	"two-doc-checker/pkg/config"
	"two-doc-checker/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

// multipartOverhead leaves room for form boundaries and the force field on
// top of two full-size files.
const multipartOverhead = 1 << 20

func SetupRouter(
	compareHandler *handlers.CompareHandler,
	serverCfg *config.ServerConfig,
	maxUploadBytes int64,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "two-doc-checker",
		// Multipart bodies are parsed from the stream (large parts spill to
		// temp files) before the handler runs, so per-file size checks see
		// every upload. BodyLimit bounds what other requests buffer.
		StreamRequestBody: true,
		BodyLimit:         int(2*maxUploadBytes + multipartOverhead),
		ReadTimeout:       serverCfg.ReadTimeout,
		WriteTimeout:      serverCfg.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"detail": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(middleware.RequestID(appLogger))
	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET,POST,PUT,PATCH,DELETE,HEAD,OPTIONS",
		AllowHeaders:  "*",
		ExposeHeaders: middleware.RequestIDHeader + "," + fiber.HeaderContentDisposition,
	}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestID} ${status} - ${latency} ${method} ${path}\n",
	}))

	// docs registers itself with swag in init()
	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/health", handlers.Health)
	app.Post("/compare", compareHandler.Compare)
	app.Post("/compare/export", compareHandler.Export)

	if serverCfg.StaticDir != "" {
		appLogger.Info("Serving static files", zap.String("path", serverCfg.StaticDir))
		app.Static("/", serverCfg.StaticDir)
	}

	return app
}
