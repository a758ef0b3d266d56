package handlers

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"
)

const proxyTimeout = 15 * time.Second

// browser-like headers; some image CDNs reject unadorned clients.
var proxyHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Accept":          "image/webp,image/apng,image/*,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9",
	"Cache-Control":   "no-cache",
}

// ImageProxyHandler relays remote images as a pure byte stream.
type ImageProxyHandler struct {
	client *http.Client
	logger *zap.Logger
}

// NewImageProxyHandler creates a new image proxy handler.
func NewImageProxyHandler(logger *zap.Logger) *ImageProxyHandler {
	return &ImageProxyHandler{
		client: &http.Client{Timeout: proxyTimeout},
		logger: logger,
	}
}

func (h *ImageProxyHandler) Proxy(ctx context.Context, req *ImageProxyRequest) (*huma.StreamResponse, error) {
	raw := strings.TrimSpace(req.URL)
	if raw == "" {
		return nil, NewError(http.StatusBadRequest, "Image URL is required")
	}

	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, NewError(http.StatusBadRequest, "Invalid image URL format")
	}

	upstreamReq, err := http.NewRequestWithContext(ctx, http.MethodGet, raw, nil)
	if err != nil {
		return nil, NewError(http.StatusInternalServerError, "Failed to load image")
	}

	for k, v := range proxyHeaders {
		upstreamReq.Header.Set(k, v)
	}

	resp, err := h.client.Do(upstreamReq)
	if err != nil {
		h.logger.Warn("image fetch failed",
			zap.String("imageUrl", raw),
			zap.Error(err),
		)

		return nil, classifyFetchError(err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		resp.Body.Close()

		return nil, NewError(resp.StatusCode, "Failed to fetch image from source")
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	return &huma.StreamResponse{
		Body: func(hctx huma.Context) {
			defer resp.Body.Close()

			hctx.SetHeader("Content-Type", contentType)
			hctx.SetHeader("Cache-Control", "public, max-age=3600")
			hctx.SetHeader("Access-Control-Allow-Origin", "*")
			hctx.SetHeader("Access-Control-Allow-Methods", "GET")
			hctx.SetHeader("Access-Control-Allow-Headers", "Content-Type")

			if _, err := io.Copy(hctx.BodyWriter(), resp.Body); err != nil {
				h.logger.Warn("image relay interrupted",
					zap.String("imageUrl", raw),
					zap.Error(err),
				)
			}
		},
	}, nil
}

// classifyFetchError maps upstream transport failures onto the statuses the
// proxy contract promises: DNS failure 404, timeout 408, anything else 500.
func classifyFetchError(err error) error {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return NewError(http.StatusNotFound, "Image not found")
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NewError(http.StatusRequestTimeout, "Image request timeout")
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return NewError(http.StatusRequestTimeout, "Image request timeout")
	}

	return NewError(http.StatusInternalServerError, "Failed to load image")
}
