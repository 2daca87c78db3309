package engine

import "github.com/dyluth/weave/pkg/rng"

// Strategy is a pluggable generation unit. Generate consumes a validated
// config and an exclusively owned random stream, and returns either the
// generated string or a structured Error - never both, never a panic.
type Strategy interface {
	Generate(cfg Config, stream *rng.Stream) (string, *Error)

	// Descriptor declares the strategy's config surface for validation and
	// for describeStrategy tooling.
	Descriptor() Descriptor
}

// Dispatcher is the re-entrant generation entry point handed to composite
// strategies (template, hybrid) at construction. Passing an explicit stream
// bypasses the top-level seed requirement, which is what makes recursive
// child calls deterministic without forcing every nested config to carry a
// seed of its own.
type Dispatcher interface {
	Dispatch(cfg Config, stream *rng.Stream) (string, *Error)
}
