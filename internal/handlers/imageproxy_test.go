package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hypd/shortlink/internal/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestImageProxy(t *testing.T) {
	t.Run("rejects a missing url", func(t *testing.T) {
		handler := handlers.NewImageProxyHandler(zap.NewNop())

		_, err := handler.Proxy(context.Background(), &handlers.ImageProxyRequest{})

		requireErrorStatus(t, err, http.StatusBadRequest, "Image URL is required")
	})

	t.Run("rejects a malformed url", func(t *testing.T) {
		handler := handlers.NewImageProxyHandler(zap.NewNop())

		_, err := handler.Proxy(context.Background(), &handlers.ImageProxyRequest{URL: "not a url"})

		requireErrorStatus(t, err, http.StatusBadRequest, "Invalid image URL format")
	})

	t.Run("rejects non-http schemes", func(t *testing.T) {
		handler := handlers.NewImageProxyHandler(zap.NewNop())

		_, err := handler.Proxy(context.Background(), &handlers.ImageProxyRequest{URL: "ftp://cdn.hypd.store/tee.jpg"})

		requireErrorStatus(t, err, http.StatusBadRequest, "Invalid image URL format")
	})

	t.Run("maps upstream http errors onto the same status", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer ts.Close()

		handler := handlers.NewImageProxyHandler(zap.NewNop())

		_, err := handler.Proxy(context.Background(), &handlers.ImageProxyRequest{URL: ts.URL + "/missing.jpg"})

		requireErrorStatus(t, err, http.StatusNotFound, "Failed to fetch image from source")
	})

	t.Run("maps upstream server errors onto the same status", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer ts.Close()

		handler := handlers.NewImageProxyHandler(zap.NewNop())

		_, err := handler.Proxy(context.Background(), &handlers.ImageProxyRequest{URL: ts.URL + "/tee.jpg"})

		requireErrorStatus(t, err, http.StatusBadGateway, "Failed to fetch image from source")
	})

	t.Run("maps timeouts to 408", func(t *testing.T) {
		release := make(chan struct{})

		ts := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
			<-release
		}))
		defer ts.Close()
		defer close(release)

		handler := handlers.NewImageProxyHandler(zap.NewNop())

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := handler.Proxy(ctx, &handlers.ImageProxyRequest{URL: ts.URL + "/tee.jpg"})

		requireErrorStatus(t, err, http.StatusRequestTimeout, "Image request timeout")
	})

	t.Run("returns a stream for a healthy upstream", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write([]byte("png-bytes"))
		}))
		defer ts.Close()

		handler := handlers.NewImageProxyHandler(zap.NewNop())

		resp, err := handler.Proxy(context.Background(), &handlers.ImageProxyRequest{URL: ts.URL + "/tee.png"})

		require.NoError(t, err)
		assert.NotNil(t, resp.Body)
	})
}
