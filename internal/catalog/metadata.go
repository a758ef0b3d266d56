package catalog

// Kind tags the outcome of resolving a URL against the vendor catalog.
type Kind int

const (
	// KindNotProduct means the URL does not address a product page.
	KindNotProduct Kind = iota
	// KindResolved means the catalog lookup succeeded.
	KindResolved
	// KindUnresolved means the URL is a product page but the lookup failed
	// or returned nothing usable; only ProductID is set.
	KindUnresolved
)

// Metadata is the typed result of a resolve. The three outcomes are explicit
// rather than encoded as errors: a failed lookup must never fail shortening.
type Metadata struct {
	Kind      Kind
	ProductID string
	Name      string
	Price     float64
	Brand     string
	ImageURL  string
}
