package shortener

import "time"

// Product holds catalog metadata captured at creation time. The fields are
// write-once: they are never refreshed even if the remote catalog changes.
type Product struct {
	ID       string
	Name     string
	Price    float64
	Brand    string
	ImageURL string

	// Resolved is false when the URL was recognized as a product page but the
	// catalog lookup failed; only ID is meaningful in that case.
	Resolved bool
}

// Mapping is a stored short-code to URL record with its click analytics.
type Mapping struct {
	Code        string
	OriginalURL string
	ClickCount  int64
	CreatedAt   time.Time

	// FirstClick is set exactly once, on the first redirect after creation.
	FirstClick *time.Time
	// LastClick is overwritten on every redirect.
	LastClick *time.Time
	// LastAccessed is written together with LastClick on every redirect.
	// Kept as a separate column for compatibility with the stored contract.
	LastAccessed *time.Time

	// Product is nil unless the original URL addressed a vendor product page.
	Product *Product
}
