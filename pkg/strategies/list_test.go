package strategies

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyluth/weave/pkg/engine"
)

func TestList_UniformPick(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	cfg := engine.Config{
		"strategy": "list",
		"seed":     "s1",
		"values":   []any{"oak", "ash", "elm"},
	}

	first, genErr := e.Generate(cfg)
	require.Nil(t, genErr)
	assert.Contains(t, []string{"oak", "ash", "elm"}, first)

	second, genErr := e.Generate(cfg)
	require.Nil(t, genErr)
	assert.Equal(t, first, second)
}

func TestList_SeedsProduceVariety(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	outputs := make(map[string]bool)
	for i := 0; i < 30; i++ {
		result, genErr := e.Generate(engine.Config{
			"strategy": "list",
			"seed":     fmt.Sprintf("seed-%d", i),
			"values":   []any{"oak", "ash", "elm", "yew"},
		})
		require.Nil(t, genErr)
		outputs[result] = true
	}
	assert.Greater(t, len(outputs), 1)
}

func TestList_WeightedPick(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	// A single overwhelming weight should dominate across seeds.
	counts := make(map[string]int)
	for i := 0; i < 100; i++ {
		result, genErr := e.Generate(engine.Config{
			"strategy": "list",
			"seed":     fmt.Sprintf("seed-%d", i),
			"values": []any{
				map[string]any{"value": "common", "weight": 1000},
				map[string]any{"value": "rare", "weight": 1},
			},
		})
		require.Nil(t, genErr)
		counts[result]++
	}
	assert.Greater(t, counts["common"], counts["rare"])
}

func TestList_MixedEntriesDefaultWeight(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	result, genErr := e.Generate(engine.Config{
		"strategy": "list",
		"seed":     "s1",
		"values": []any{
			"plain",
			map[string]any{"value": "weighted", "weight": 2},
		},
	})
	require.Nil(t, genErr)
	assert.Contains(t, []string{"plain", "weighted"}, result)
}

func TestList_ErrorCases(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	t.Run("missing values", func(t *testing.T) {
		_, genErr := e.Generate(engine.Config{"strategy": "list", "seed": "s1"})
		require.NotNil(t, genErr)
		assert.Equal(t, engine.CodeMissingRequiredKeys, genErr.Code)
	})

	t.Run("values not a list", func(t *testing.T) {
		_, genErr := e.Generate(engine.Config{"strategy": "list", "seed": "s1", "values": "nope"})
		require.NotNil(t, genErr)
		assert.Equal(t, CodeInvalidValuesType, genErr.Code)
	})

	t.Run("empty values", func(t *testing.T) {
		_, genErr := e.Generate(engine.Config{"strategy": "list", "seed": "s1", "values": []any{}})
		require.NotNil(t, genErr)
		assert.Equal(t, CodeEmptyValues, genErr.Code)
	})

	t.Run("entry without value", func(t *testing.T) {
		_, genErr := e.Generate(engine.Config{
			"strategy": "list",
			"seed":     "s1",
			"values":   []any{map[string]any{"weight": 3}},
		})
		require.NotNil(t, genErr)
		assert.Equal(t, CodeInvalidValueEntry, genErr.Code)
		assert.Equal(t, 0, genErr.Detail("index"))
	})

	t.Run("non-positive weight", func(t *testing.T) {
		_, genErr := e.Generate(engine.Config{
			"strategy": "list",
			"seed":     "s1",
			"values":   []any{map[string]any{"value": "x", "weight": 0}},
		})
		require.NotNil(t, genErr)
		assert.Equal(t, CodeInvalidValueEntry, genErr.Code)
	})

	t.Run("non-string non-map entry", func(t *testing.T) {
		_, genErr := e.Generate(engine.Config{
			"strategy": "list",
			"seed":     "s1",
			"values":   []any{"ok", 7},
		})
		require.NotNil(t, genErr)
		assert.Equal(t, CodeInvalidValueEntry, genErr.Code)
		assert.Equal(t, 1, genErr.Detail("index"))
	})
}
