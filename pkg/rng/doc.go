// Package rng provides the deterministic random-stream machinery that every
// Weave generation strategy is built on.
//
// A Stream is a seeded pseudo-random source that remembers its seed. A Router
// derives child Streams from a base seed and an ordered path of labels: equal
// (base seed, path) pairs always derive bit-identical Streams, on any machine,
// across any number of runs. That property is the engine's core contract -
// reproducible content generation for authoring, QA replay, and save/load
// consistency.
//
// Derivation uses FNV-1a over a canonical length-prefixed encoding of the seed
// and path. The hash is fixed and versioned on purpose: a runtime's built-in
// hash may change between releases, which would silently break reproducibility.
package rng
