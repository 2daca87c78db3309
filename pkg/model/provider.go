package model

// Provider resolves model identifiers to validated, in-memory model data.
// The markov strategy is its only core consumer; implementations own all
// format parsing and caching.
type Provider interface {
	// Exists reports whether the identifier resolves to a loadable model.
	Exists(id string) bool

	// Load returns the model for the identifier, or an error describing why
	// it could not be loaded. A (nil, nil) return is treated by callers as a
	// malformed resource.
	Load(id string) (*Model, error)
}
