package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/hypd/shortlink/internal/catalog"
	"github.com/hypd/shortlink/internal/shortener"
	"go.uber.org/zap"
)

// minStatsCodeLength rejects obviously bogus stats lookups before any query.
const minStatsCodeLength = 3

// URLHandler handles shortening, stats and redirect operations.
type URLHandler struct {
	svc          *shortener.Service
	baseURL      string
	vendorDomain string
	logger       *zap.Logger
}

// NewURLHandler creates a new URL handler.
func NewURLHandler(svc *shortener.Service, baseURL, vendorDomain string, logger *zap.Logger) *URLHandler {
	return &URLHandler{
		svc:          svc,
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		vendorDomain: vendorDomain,
		logger:       logger,
	}
}

func (h *URLHandler) Shorten(ctx context.Context, req *ShortenRequest) (*ShortenResponse, error) {
	raw := strings.TrimSpace(req.Body.URL)
	if raw == "" {
		return nil, NewError(http.StatusBadRequest, "URL is required")
	}

	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, NewError(http.StatusBadRequest, "Invalid URL format")
	}

	if !catalog.IsVendorHost(u.Hostname(), h.vendorDomain) {
		return nil, NewError(http.StatusBadRequest, fmt.Sprintf("Only %s is supported", h.vendorDomain))
	}

	m, err := h.svc.Create(ctx, raw)
	if err != nil {
		h.logger.Error("failed to create short url",
			zap.String("originalUrl", raw),
			zap.Error(err),
		)

		return nil, NewError(http.StatusInternalServerError, "Failed to create short URL")
	}

	resp := &ShortenResponse{}
	resp.Body.ShortCode = m.Code
	resp.Body.ShortURL = fmt.Sprintf("%s/%s", h.baseURL, m.Code)
	resp.Body.OriginalURL = m.OriginalURL
	resp.Body.CreatedAt = m.CreatedAt
	resp.Body.ProductInfo = newProductInfo(m.Product)

	return resp, nil
}

func (h *URLHandler) Stats(ctx context.Context, req *StatsRequest) (*StatsResponse, error) {
	if len(req.ShortCode) < minStatsCodeLength {
		return nil, NewError(http.StatusBadRequest, "Invalid short code")
	}

	m, err := h.svc.Stats(ctx, req.ShortCode)
	if err != nil {
		if errors.Is(err, shortener.ErrNotFound) {
			return nil, NewError(http.StatusNotFound, "Short URL not found")
		}

		h.logger.Error("failed to fetch stats",
			zap.String("code", req.ShortCode),
			zap.Error(err),
		)

		return nil, NewError(http.StatusInternalServerError, "Failed to fetch statistics")
	}

	resp := &StatsResponse{}
	resp.Body.ShortCode = m.Code
	resp.Body.OriginalURL = m.OriginalURL
	resp.Body.ClickCount = m.ClickCount
	resp.Body.CreatedAt = m.CreatedAt
	resp.Body.LastAccessed = m.LastAccessed
	resp.Body.FirstClick = m.FirstClick
	resp.Body.LastClick = m.LastClick
	resp.Body.ProductInfo = newProductInfo(m.Product)

	return resp, nil
}

func (h *URLHandler) Redirect(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	destination, err := h.svc.Click(ctx, req.ShortCode)
	if err != nil {
		if errors.Is(err, shortener.ErrNotFound) {
			return nil, NewError(http.StatusNotFound, "Short URL not found")
		}

		h.logger.Error("failed to record click",
			zap.String("code", req.ShortCode),
			zap.Error(err),
		)

		return nil, NewError(http.StatusInternalServerError, "Internal server error")
	}

	meta := RequestMetaFromContext(ctx)
	h.logger.Debug("click recorded",
		zap.String("code", req.ShortCode),
		zap.String("clientIp", meta.ClientIP),
		zap.String("userAgent", meta.UserAgent),
		zap.String("requestId", meta.RequestID),
	)

	return &RedirectResponse{
		Status:   http.StatusFound,
		Location: destination,
	}, nil
}

// newProductInfo maps the stored product fields onto the wire block. The
// descriptive fields are null unless the catalog lookup succeeded at creation.
func newProductInfo(p *shortener.Product) *ProductInfo {
	if p == nil {
		return nil
	}

	info := &ProductInfo{ProductID: p.ID}

	if p.Resolved {
		info.ProductName = &p.Name
		info.ProductPrice = &p.Price
		info.BrandName = &p.Brand

		if p.ImageURL != "" {
			info.ProductImageURL = &p.ImageURL
		}
	}

	return info
}
