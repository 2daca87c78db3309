package rng

import (
	"encoding/binary"
	"hash/fnv"
)

// Router deterministically derives Streams from a base seed and an ordered
// path of labels.
//
// Routers are immutable values: Branch returns a new Router with an extended
// path and never mutates the receiver. Two Routers with equal (base seed,
// path) derive bit-identical Streams for equal segment suffixes.
type Router struct {
	baseSeed int64
	path     []string
}

// NewRouter creates a Router rooted at the given integer seed with an empty
// path.
func NewRouter(seed int64) Router {
	return Router{baseSeed: seed}
}

// RouterFromStream creates a Router rooted at the stream's original seed.
// The stream's consumed state is deliberately ignored, so derivation is
// independent of how many values a parent strategy has already drawn.
func RouterFromStream(s *Stream) Router {
	return Router{baseSeed: s.Seed()}
}

// Branch returns a new Router whose path is the receiver's path with the
// given segments appended. The receiver is not modified.
func (r Router) Branch(segments ...string) Router {
	path := make([]string, 0, len(r.path)+len(segments))
	path = append(path, r.path...)
	path = append(path, segments...)
	return Router{baseSeed: r.baseSeed, path: path}
}

// DeriveStream derives a freshly seeded Stream from the router's base seed,
// its accumulated path, and the given segments, in order.
//
// The derivation seed is an FNV-1a 64-bit hash over a canonical encoding:
// the base seed as 8 big-endian bytes, then each path segment as a uvarint
// length prefix followed by its raw bytes. The length prefix keeps the
// encoding unambiguous, so ["ab","c"] and ["a","bc"] derive different seeds.
func (r Router) DeriveStream(segments ...string) *Stream {
	return NewStream(r.deriveSeed(segments))
}

// Stream derives a Stream from the accumulated path alone, letting a branch
// be converted to a concrete Stream without appending further segments.
func (r Router) Stream() *Stream {
	return r.DeriveStream()
}

func (r Router) deriveSeed(segments []string) int64 {
	h := fnv.New64a()

	var seed [8]byte
	binary.BigEndian.PutUint64(seed[:], uint64(r.baseSeed))
	h.Write(seed[:])

	var length [binary.MaxVarintLen64]byte
	writeSegment := func(seg string) {
		n := binary.PutUvarint(length[:], uint64(len(seg)))
		h.Write(length[:n])
		h.Write([]byte(seg))
	}
	for _, seg := range r.path {
		writeSegment(seg)
	}
	for _, seg := range segments {
		writeSegment(seg)
	}

	return int64(h.Sum64())
}
