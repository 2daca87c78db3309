package streams

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPool_SameNameSameSequence(t *testing.T) {
	pool := NewPool(42)

	first := pool.GetStream("weave::s1")
	second := pool.GetStream("weave::s1")
	assert.Equal(t, first.Int63(), second.Int63())
}

func TestPool_DifferentNamesDiverge(t *testing.T) {
	pool := NewPool(42)

	a := pool.GetStream("weave::s1")
	b := pool.GetStream("weave::s2")
	assert.NotEqual(t, a.Int63(), b.Int63())
}

func TestPool_BaseSeedMatters(t *testing.T) {
	a := NewPool(1).GetStream("weave::s1")
	b := NewPool(2).GetStream("weave::s1")
	assert.NotEqual(t, a.Int63(), b.Int63())
}
