package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mstanek/apidex"
	apidexhttp "github.com/mstanek/apidex/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScrapeClient_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("posts URL and returns rendered HTML", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/scrape", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

			var req struct {
				URL    string `json:"url"`
				Render bool   `json:"render"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "https://docs.example.com/api", req.URL)
			assert.True(t, req.Render)

			_ = json.NewEncoder(w).Encode(map[string]string{
				"html": "<html><body>rendered</body></html>",
			})
		}))
		defer server.Close()

		client := apidexhttp.NewScrapeClient(server.URL, "test-key")
		defer client.Close()

		html, err := client.Fetch(context.Background(), "https://docs.example.com/api")
		require.NoError(t, err)
		assert.Equal(t, "<html><body>rendered</body></html>", html)
	})

	t.Run("WithoutRender disables rendering", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Render bool `json:"render"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.False(t, req.Render)
			_ = json.NewEncoder(w).Encode(map[string]string{"html": "<html/>"})
		}))
		defer server.Close()

		client := apidexhttp.NewScrapeClient(server.URL, "test-key", apidexhttp.WithoutRender())
		defer client.Close()

		_, err := client.Fetch(context.Background(), "https://example.com")
		require.NoError(t, err)
	})

	t.Run("maps 429 to EUNAVAILABLE", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		client := apidexhttp.NewScrapeClient(server.URL, "test-key")
		defer client.Close()

		_, err := client.Fetch(context.Background(), "https://example.com")
		assert.Equal(t, apidex.EUNAVAILABLE, apidex.ErrorCode(err))
	})

	t.Run("maps 401 to EUNAUTHORIZED", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		client := apidexhttp.NewScrapeClient(server.URL, "bad-key")
		defer client.Close()

		_, err := client.Fetch(context.Background(), "https://example.com")
		assert.Equal(t, apidex.EUNAUTHORIZED, apidex.ErrorCode(err))
	})

	t.Run("surfaces service-level errors", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "target unreachable"})
		}))
		defer server.Close()

		client := apidexhttp.NewScrapeClient(server.URL, "test-key")
		defer client.Close()

		_, err := client.Fetch(context.Background(), "https://example.com")
		require.Error(t, err)
		assert.Contains(t, apidex.ErrorMessage(err), "target unreachable")
	})
}
