package engine

import "github.com/dyluth/weave/pkg/rng"

// StreamProvider supplies the execution stream for a resolved stream name
// when the caller did not pass an explicit stream. Implementations decide
// what a name maps to; internal/streams provides a deterministic pool rooted
// at a project seed.
type StreamProvider interface {
	GetStream(name string) *rng.Stream
}

// Metadata accompanies every observer notification for one generation call.
type Metadata struct {
	// GenerationID uniquely identifies this top-level or recursive call.
	GenerationID string

	// StrategyID is the normalized strategy identifier being dispatched.
	StrategyID string

	// Seed is the config's seed text, empty when the config carried none.
	Seed string

	// StreamName is the resolved stream name used for usage bookkeeping.
	StreamName string

	// Source tags how StreamName was resolved: "explicit_override",
	// "seed_derived", or "default_prefix".
	Source string
}

// StreamUsage describes one recorded use of a named stream.
type StreamUsage struct {
	StrategyID string
	Source     string

	// Fallback is true when no StreamProvider was registered and the engine
	// had to construct a fresh non-deterministic stream. Such generations
	// are not reproducible.
	Fallback bool
}

// Observer receives generation lifecycle and stream-usage notifications.
// Notifications are fire-and-forget: no return value influences control
// flow, and the engine behaves identically whether or not anything observes
// it.
type Observer interface {
	GenerationStarted(cfg Config, md Metadata)
	GenerationCompleted(cfg Config, result string, md Metadata)
	GenerationFailed(cfg Config, genErr *Error, md Metadata)
	StreamUsageRecorded(streamName string, usage StreamUsage)
}
