package app

import (
	"net/http"

	"github.com/friendsofgo/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/warunyoud/botv2Test/internal/bot"
	"github.com/warunyoud/botv2Test/internal/config"
	"github.com/warunyoud/botv2Test/internal/controllers/callback"
	"github.com/warunyoud/botv2Test/internal/eko"
	"github.com/warunyoud/botv2Test/internal/tenant"
)

// New assembles the fiber app: one shared HTTP client, one platform client
// and router per tenant, and the callback route they are all mounted on.
func New(settings *config.Settings, registry tenant.Registry, logger zerolog.Logger) (*fiber.App, error) {
	if len(registry) == 0 {
		return nil, errors.New("tenant registry is empty")
	}

	httpClient := &http.Client{Timeout: settings.HTTPClientTimeout}

	routers := make(map[string]callback.EventRouter, len(registry))
	for segment, t := range registry {
		tenantLogger := logger.With().Str("tenant", segment).Logger()
		client := eko.NewClient(t.Credentials, httpClient, tenantLogger)
		routers[segment] = bot.NewRouter(client, t.ResponseFile, tenantLogger)
		logger.Info().Str("tenant", segment).Str("base_url", t.Credentials.BaseURL).Msg("registered tenant")
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
	})
	app.Use(contextLoggerMiddleware(logger))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"data": "Server is up and running",
		})
	})

	controller := callback.NewController(routers)
	app.Post("/:tenant/callback", controller.HandleCallback)

	return app, nil
}

// contextLoggerMiddleware makes the service logger available through the
// request's user context.
func contextLoggerMiddleware(logger zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.SetUserContext(logger.WithContext(c.UserContext()))
		return c.Next()
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}
	if code >= fiber.StatusInternalServerError {
		zerolog.Ctx(c.UserContext()).Error().Err(err).Msg("request failed")
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
