package callback

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRouter struct {
	mu      sync.Mutex
	batches [][]Event
}

func (r *recordingRouter) HandleEvents(_ context.Context, events []Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, events)
}

func newTestApp(routers map[string]EventRouter) *fiber.App {
	app := fiber.New()
	controller := NewController(routers)
	app.Post("/:tenant/callback", controller.HandleCallback)
	return app
}

func postCallback(t *testing.T, app *fiber.App, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestHandleCallback(t *testing.T) {
	t.Parallel()

	t.Run("routes the batch to the tenant's router", func(t *testing.T) {
		router := &recordingRouter{}
		app := newTestApp(map[string]EventRouter{"acme": router})

		body := `{"events": [
			{"type": "message", "replyToken": "rt-1", "source": {"userId": "u1"}, "message": {"text": "hello"}},
			{"type": "postback", "replyToken": "rt-2", "postback": {"data": "d"}}
		]}`
		resp := postCallback(t, app, "/acme/callback", body)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		require.Len(t, router.batches, 1)
		require.Len(t, router.batches[0], 2)
		assert.Equal(t, "hello", router.batches[0][0].Message.Text)
		assert.Equal(t, "d", router.batches[0][1].Postback.Data)
	})

	t.Run("unknown tenant gets 404", func(t *testing.T) {
		app := newTestApp(map[string]EventRouter{"acme": &recordingRouter{}})

		resp := postCallback(t, app, "/globex/callback", `{"events": []}`)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("malformed body gets 400 and no dispatch", func(t *testing.T) {
		router := &recordingRouter{}
		app := newTestApp(map[string]EventRouter{"acme": router})

		resp := postCallback(t, app, "/acme/callback", `{"events": [`)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Empty(t, router.batches)
	})

	t.Run("empty batch is accepted", func(t *testing.T) {
		router := &recordingRouter{}
		app := newTestApp(map[string]EventRouter{"acme": router})

		resp := postCallback(t, app, "/acme/callback", `{"events": []}`)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}
