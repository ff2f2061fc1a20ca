// Package callback receives webhook event batches from the chat platform
// and hands them to the owning tenant's router.
package callback

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/warunyoud/botv2Test/internal/bot"
)

// EventRouter processes one tenant's event batch asynchronously.
type EventRouter interface {
	HandleEvents(ctx context.Context, events []Event)
}

// Event aliases the router's inbound event model; the controller only
// parses it.
type Event = bot.Event

// Controller routes each webhook callback to its tenant.
type Controller struct {
	routers map[string]EventRouter
}

// NewController creates a callback controller over an immutable set of
// per-tenant routers keyed by path segment.
func NewController(routers map[string]EventRouter) *Controller {
	return &Controller{routers: routers}
}

type callbackRequest struct {
	Events []Event `json:"events"`
}

// HandleCallback accepts a webhook batch for the tenant in the path.
// Events are dispatched asynchronously; the platform gets a 200 as soon as
// the batch is parsed.
func (ctl *Controller) HandleCallback(c *fiber.Ctx) error {
	segment := c.Params("tenant")
	router, ok := ctl.routers[segment]
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "unknown tenant")
	}

	var payload callbackRequest
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid callback payload")
	}

	zerolog.Ctx(c.UserContext()).Info().
		Str("tenant", segment).
		Int("events", len(payload.Events)).
		Msg("received callback batch")

	// The fiber context is recycled once this handler returns, so event
	// processing runs on a fresh background context.
	router.HandleEvents(context.Background(), payload.Events)

	return c.JSON(fiber.Map{"status": "ok"})
}
