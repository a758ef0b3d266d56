package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes registers the API operations and the redirect route.
func RegisterRoutes(api huma.API, urls *URLHandler, images *ImageProxyHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "shorten-url",
		Method:        http.MethodPost,
		Path:          "/api/shorten",
		Summary:       "Create short URL",
		Description:   "Shortens a hypd.store URL, resolving product metadata when the URL addresses a catalog product.",
		Tags:          []string{"URLs"},
		DefaultStatus: http.StatusCreated,
	}, urls.Shorten)

	huma.Register(api, huma.Operation{
		OperationID: "get-stats",
		Method:      http.MethodGet,
		Path:        "/api/stats/{shortCode}",
		Summary:     "Get click statistics",
		Description: "Returns the stored mapping with its click analytics without recording a click.",
		Tags:        []string{"URLs"},
	}, urls.Stats)

	huma.Register(api, huma.Operation{
		OperationID: "image-proxy",
		Method:      http.MethodGet,
		Path:        "/api/image-proxy",
		Summary:     "Relay a product image",
		Description: "Streams a remote image, mapping upstream failures onto matching statuses.",
		Tags:        []string{"Images"},
	}, images.Proxy)

	huma.Register(api, huma.Operation{
		OperationID:   "redirect",
		Method:        http.MethodGet,
		Path:          "/{shortCode}",
		Summary:       "Redirect to original URL",
		Description:   "Records a click and redirects to the original URL.",
		Tags:          []string{"URLs"},
		DefaultStatus: http.StatusFound,
	}, urls.Redirect)
}
