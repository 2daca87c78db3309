// Package streams provides the deterministic stream provider wired into the
// engine facade. Streams are derived from a project base seed, so every
// resolved stream name maps to the same PRNG sequence on every machine.
package streams

import (
	"github.com/dyluth/weave/pkg/rng"
)

// Pool derives engine streams from a project base seed.
//
// The pool holds no per-stream state: each GetStream call re-derives the
// stream from scratch, so two generations that resolve to the same stream
// name start from identical sequences. That is exactly what the facade's
// determinism contract needs, because resolved stream names already embed
// the request seed.
type Pool struct {
	router rng.Router
}

// NewPool creates a pool rooted at the project base seed.
func NewPool(baseSeed int64) *Pool {
	return &Pool{router: rng.NewRouter(baseSeed)}
}

// GetStream derives the stream for a resolved stream name.
func (p *Pool) GetStream(name string) *rng.Stream {
	return p.router.DeriveStream(name)
}
