package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the production catalog lookup endpoint.
const DefaultBaseURL = "https://catalog2.hypd.store"

// DefaultVendorDomain is the vendor domain this service shortens for.
const DefaultVendorDomain = "hypd.store"

const lookupTimeout = 5 * time.Second

const userAgent = "HYPd-URL-Shortener/1.0"

var productPath = regexp.MustCompile(`/hypd_store/product/([a-f0-9]+)`)

// Resolver resolves a URL into product metadata. Implementations never return
// an error: failures degrade to KindUnresolved or KindNotProduct.
type Resolver interface {
	Resolve(ctx context.Context, rawURL string) Metadata
}

// IsVendorHost reports whether hostname is the vendor domain or a subdomain.
func IsVendorHost(hostname, domain string) bool {
	hostname = strings.ToLower(hostname)

	return hostname == domain || strings.HasSuffix(hostname, "."+domain)
}

// ExtractProductID pulls the hex product identifier out of a vendor product
// URL. The second return is false when the URL is not a product page.
func ExtractProductID(rawURL, domain string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}

	if !IsVendorHost(u.Hostname(), domain) {
		return "", false
	}

	m := productPath.FindStringSubmatch(u.Path)
	if m == nil {
		return "", false
	}

	return m[1], true
}

// Client resolves product metadata against the remote catalog API.
type Client struct {
	http    *http.Client
	baseURL string
	domain  string
	logger  *zap.Logger
}

// NewClient creates a catalog client. baseURL and domain fall back to the
// production defaults when empty.
func NewClient(baseURL, domain string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	if domain == "" {
		domain = DefaultVendorDomain
	}

	return &Client{
		http:    &http.Client{Timeout: lookupTimeout},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		domain:  domain,
		logger:  logger,
	}
}

// catalog basic lookup payload; only the fields we extract.
type lookupResponse struct {
	Success bool `json:"success"`
	Payload []struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		RetailPrice *struct {
			Value float64 `json:"value"`
		} `json:"retail_price"`
		BasePrice *struct {
			Value float64 `json:"value"`
		} `json:"base_price"`
		BrandInfo *struct {
			Name string `json:"name"`
		} `json:"brand_info"`
		FeaturedImage *struct {
			Src string `json:"src"`
		} `json:"featured_image"`
	} `json:"payload"`
}

// Resolve recognizes product URLs and fetches their catalog entry. Lookup
// failures are logged and degrade to KindUnresolved so shortening always
// completes.
func (c *Client) Resolve(ctx context.Context, rawURL string) Metadata {
	id, ok := ExtractProductID(rawURL, c.domain)
	if !ok {
		return Metadata{Kind: KindNotProduct}
	}

	meta, err := c.fetch(ctx, id)
	if err != nil {
		c.logger.Warn("catalog lookup failed",
			zap.String("productId", id),
			zap.Error(err),
		)

		return Metadata{Kind: KindUnresolved, ProductID: id}
	}

	return meta
}

func (c *Client) fetch(ctx context.Context, id string) (Metadata, error) {
	lookupURL := fmt.Sprintf("%s/api/app/catalog/basic?id=%s.json&id=%s", c.baseURL, id, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return Metadata{}, err
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return Metadata{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Metadata{}, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Metadata{}, err
	}

	if !body.Success || len(body.Payload) == 0 {
		return Metadata{}, fmt.Errorf("catalog returned no product for %s", id)
	}

	product := body.Payload[0]

	meta := Metadata{
		Kind:      KindResolved,
		ProductID: product.ID,
		Name:      product.Name,
		Brand:     "Unknown Brand",
	}

	if meta.ProductID == "" {
		meta.ProductID = id
	}

	switch {
	case product.RetailPrice != nil:
		meta.Price = product.RetailPrice.Value
	case product.BasePrice != nil:
		meta.Price = product.BasePrice.Value
	}

	if product.BrandInfo != nil && product.BrandInfo.Name != "" {
		meta.Brand = product.BrandInfo.Name
	}

	if product.FeaturedImage != nil {
		meta.ImageURL = product.FeaturedImage.Src
	}

	return meta, nil
}

// Compile-time check.
var _ Resolver = (*Client)(nil)
