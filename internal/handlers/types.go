package handlers

import "time"

// ProductInfo is the catalog metadata block attached to product URLs. The
// descriptive fields stay null for products that were recognized but could
// not be resolved at creation time.
type ProductInfo struct {
	ProductID       string   `doc:"Catalog product identifier" json:"productId"`
	ProductName     *string  `doc:"Product name"               json:"productName"`
	ProductPrice    *float64 `doc:"Product price"              json:"productPrice"`
	BrandName       *string  `doc:"Brand name"                 json:"brandName"`
	ProductImageURL *string  `doc:"Product image URL"          json:"productImageUrl"`
}

// ShortenRequest is the request body for creating a short URL.
type ShortenRequest struct {
	Body struct {
		URL string `doc:"The vendor URL to shorten" example:"https://www.hypd.store/hypd_store/product/6888713305e32ec275591e09" json:"url,omitempty"`
	}
}

// ShortenResponse is the response for a successfully created short URL.
type ShortenResponse struct {
	Body struct {
		ShortCode   string       `doc:"The short code"     example:"aB3xY9"                      json:"shortCode"`
		ShortURL    string       `doc:"The full short URL" example:"http://localhost:3000/aB3xY9" json:"shortUrl"`
		OriginalURL string       `doc:"The original URL"                                          json:"originalUrl"`
		CreatedAt   time.Time    `doc:"Creation timestamp"                                        json:"createdAt"`
		ProductInfo *ProductInfo `doc:"Product metadata, present for product URLs only"           json:"productInfo,omitempty"`
	}
}

// StatsRequest is the request for reading click statistics.
type StatsRequest struct {
	ShortCode string `doc:"The short code" example:"aB3xY9" path:"shortCode"`
}

// StatsResponse is the stored mapping with its click analytics.
type StatsResponse struct {
	Body struct {
		ShortCode    string       `json:"shortCode"`
		OriginalURL  string       `json:"originalUrl"`
		ClickCount   int64        `json:"clickCount"`
		CreatedAt    time.Time    `json:"createdAt"`
		LastAccessed *time.Time   `json:"lastAccessed"`
		FirstClick   *time.Time   `json:"firstClick"`
		LastClick    *time.Time   `json:"lastClick"`
		ProductInfo  *ProductInfo `json:"productInfo,omitempty"`
	}
}

// RedirectRequest is the request for redirecting a short URL.
type RedirectRequest struct {
	ShortCode string `doc:"The short code" example:"aB3xY9" path:"shortCode"`
}

// RedirectResponse issues the redirect to the original URL.
type RedirectResponse struct {
	Status   int
	Location string `header:"Location"`
}

// ImageProxyRequest is the request for relaying a remote image.
type ImageProxyRequest struct {
	URL string `doc:"The image URL to relay" query:"url"`
}
