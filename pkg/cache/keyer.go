package cache

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey returns the key for the layout of a request with the given
	// hash.
	LayoutKey(requestHash string, opts LayoutKeyOpts) string
}

// LayoutKeyOpts are the layout settings that are not part of the request.
type LayoutKeyOpts struct {
	Engine string `json:"engine"`
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:" followed by a hash of the inputs.
func (DefaultKeyer) LayoutKey(requestHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", requestHash, opts)
}
