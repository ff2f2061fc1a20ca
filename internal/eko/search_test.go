package eko

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchQueryParameters(t *testing.T) {
	t.Parallel()

	platform := newTestPlatform(t)
	platform.mux.HandleFunc("/api/library/v1/users/u1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "invoice template", r.URL.Query().Get("keyword"))
		assert.Equal(t, "13", r.URL.Query().Get("limit"))
		_ = json.NewEncoder(w).Encode([]LibraryItem{
			{ID: "doc-1", Title: "Invoice template", URL: "https://docs.example.com/doc-1"},
		})
	})

	items := platform.client().SearchLibrary(context.Background(), "u1", "invoice template")
	require.Len(t, items, 1)
	assert.Equal(t, "Invoice template", items[0].Title)
}

func TestSearchDegradesToEmpty(t *testing.T) {
	t.Parallel()

	t.Run("server error", func(t *testing.T) {
		platform := newTestPlatform(t)
		platform.mux.HandleFunc("/api/workflow/v1", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		assert.Empty(t, platform.client().SearchWorkflowTemplates(context.Background(), "x"))
	})

	t.Run("malformed body", func(t *testing.T) {
		platform := newTestPlatform(t)
		platform.mux.HandleFunc("/api/workflow/v1/users/u1", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		})
		assert.Empty(t, platform.client().SearchWorkflows(context.Background(), "u1", "x"))
	})

	t.Run("unreachable host", func(t *testing.T) {
		client := NewClient(Credentials{
			ClientID:     "test-client",
			ClientSecret: "test-secret",
			BaseURL:      "http://invalid.localhost:0",
		}, nil, zerolog.Nop())
		assert.Empty(t, client.SearchLibrary(context.Background(), "u1", "x"))
	})
}

func TestGetUserInfo(t *testing.T) {
	t.Parallel()

	t.Run("returns the user object", func(t *testing.T) {
		platform := newTestPlatform(t)
		platform.mux.HandleFunc("/bot/v2/groups/g1/users/u1/info", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"id": "u1", "name": "Ada"})
		})

		user := platform.client().GetUserInfo(context.Background(), "g1", "u1")
		require.NotNil(t, user)
		assert.Equal(t, "Ada", user["name"])
	})

	t.Run("empty object means not found", func(t *testing.T) {
		platform := newTestPlatform(t)
		platform.mux.HandleFunc("/bot/v2/groups/g1/users/u1/info", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("{}"))
		})

		assert.Nil(t, platform.client().GetUserInfo(context.Background(), "g1", "u1"))
	})

	t.Run("lookup failure means not found", func(t *testing.T) {
		platform := newTestPlatform(t)
		platform.mux.HandleFunc("/bot/v2/groups/g1/users/u1/info", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		assert.Nil(t, platform.client().GetUserInfo(context.Background(), "g1", "u1"))
	})
}

func TestGetGroupThread(t *testing.T) {
	t.Parallel()

	t.Run("resolves a user to a thread", func(t *testing.T) {
		platform := newTestPlatform(t)
		platform.mux.HandleFunc("/bot/v2/groups/users/u1", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(GroupThread{GroupID: "g1", ThreadID: "t1"})
		})

		thread := platform.client().GetGroupThread(context.Background(), "u1")
		assert.Equal(t, GroupThread{GroupID: "g1", ThreadID: "t1"}, thread)
	})

	t.Run("unresolvable user yields the zero value", func(t *testing.T) {
		platform := newTestPlatform(t)
		platform.mux.HandleFunc("/bot/v2/groups/users/u1", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		assert.Equal(t, GroupThread{}, platform.client().GetGroupThread(context.Background(), "u1"))
	})
}
