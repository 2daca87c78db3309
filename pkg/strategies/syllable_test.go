package strategies

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyluth/weave/pkg/engine"
)

func syllableConfig(seed string) engine.Config {
	return engine.Config{
		"strategy": "syllable",
		"seed":     seed,
		"syllables": map[string]any{
			"initial": []any{"ka", "zu"},
			"middle":  []any{"ri", "mo"},
			"final":   []any{"n", "th"},
		},
	}
}

func TestSyllable_BuildsWord(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	result, genErr := e.Generate(syllableConfig("s1"))
	require.Nil(t, genErr)

	// initial + up to two middles + final.
	assert.True(t, strings.HasPrefix(result, "ka") || strings.HasPrefix(result, "zu"))
	assert.True(t, strings.HasSuffix(result, "n") || strings.HasSuffix(result, "th"))
}

func TestSyllable_Deterministic(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	first, genErr := e.Generate(syllableConfig("s1"))
	require.Nil(t, genErr)
	second, genErr := e.Generate(syllableConfig("s1"))
	require.Nil(t, genErr)
	assert.Equal(t, first, second)
}

func TestSyllable_MiddleBoundsRespected(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	for i := 0; i < 30; i++ {
		cfg := syllableConfig(fmt.Sprintf("seed-%d", i))
		cfg["min_middle"] = 1
		cfg["max_middle"] = 1

		result, genErr := e.Generate(cfg)
		require.Nil(t, genErr)
		// Exactly one two-letter middle: total length is fixed per suffix.
		assert.True(t, len(result) == 5 || len(result) == 6, "got %q", result)
	}
}

func TestSyllable_InitialOnly(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	result, genErr := e.Generate(engine.Config{
		"strategy":  "syllable",
		"seed":      "s1",
		"syllables": map[string]any{"initial": []any{"solo"}},
	})
	require.Nil(t, genErr)
	assert.Equal(t, "solo", result)
}

func TestSyllable_ErrorCases(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	t.Run("missing syllables", func(t *testing.T) {
		_, genErr := e.Generate(engine.Config{"strategy": "syllable", "seed": "s1"})
		require.NotNil(t, genErr)
		assert.Equal(t, engine.CodeMissingRequiredKeys, genErr.Code)
	})

	t.Run("syllables not a map", func(t *testing.T) {
		_, genErr := e.Generate(engine.Config{
			"strategy":  "syllable",
			"seed":      "s1",
			"syllables": "nope",
		})
		require.NotNil(t, genErr)
		assert.Equal(t, engine.CodeInvalidKeyType, genErr.Code)
	})

	t.Run("empty initial group", func(t *testing.T) {
		_, genErr := e.Generate(engine.Config{
			"strategy":  "syllable",
			"seed":      "s1",
			"syllables": map[string]any{"middle": []any{"ri"}},
		})
		require.NotNil(t, genErr)
		assert.Equal(t, CodeInvalidSyllables, genErr.Code)
	})

	t.Run("non-list group", func(t *testing.T) {
		_, genErr := e.Generate(engine.Config{
			"strategy":  "syllable",
			"seed":      "s1",
			"syllables": map[string]any{"initial": "ka"},
		})
		require.NotNil(t, genErr)
		assert.Equal(t, CodeInvalidSyllables, genErr.Code)
		assert.Equal(t, "initial", genErr.Detail("group"))
	})

	t.Run("non-string syllable", func(t *testing.T) {
		_, genErr := e.Generate(engine.Config{
			"strategy":  "syllable",
			"seed":      "s1",
			"syllables": map[string]any{"initial": []any{"ka", 9}},
		})
		require.NotNil(t, genErr)
		assert.Equal(t, CodeInvalidSyllables, genErr.Code)
	})

	t.Run("inverted middle bounds", func(t *testing.T) {
		cfg := syllableConfig("s1")
		cfg["min_middle"] = 3
		cfg["max_middle"] = 1

		_, genErr := e.Generate(cfg)
		require.NotNil(t, genErr)
		assert.Equal(t, CodeInvalidMiddleBounds, genErr.Code)
		assert.Equal(t, 3, genErr.Detail("min_middle"))
		assert.Equal(t, 1, genErr.Detail("max_middle"))
	})
}

func TestConst_EchoesValue(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	result, genErr := e.Generate(engine.Config{
		"strategy": "const",
		"seed":     "s1",
		"value":    "fixed",
	})
	require.Nil(t, genErr)
	assert.Equal(t, "fixed", result)
}

func TestConst_RejectsNonStringValue(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	_, genErr := e.Generate(engine.Config{
		"strategy": "const",
		"seed":     "s1",
		"value":    42,
	})
	require.NotNil(t, genErr)
	assert.Equal(t, engine.CodeInvalidKeyType, genErr.Code)
}
