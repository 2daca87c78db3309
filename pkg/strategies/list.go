package strategies

import (
	"github.com/dyluth/weave/pkg/engine"
	"github.com/dyluth/weave/pkg/rng"
)

// Error codes produced by the list strategy.
const (
	CodeInvalidValuesType = "invalid_values_type"
	CodeEmptyValues       = "empty_values"
	CodeInvalidValueEntry = "invalid_value_entry"
)

// List samples one entry from an inline value list.
//
// Entries are either plain strings or {value, weight} maps; selection is
// uniform when no entry carries a weight, weighted otherwise (unweighted
// entries default to weight 1).
type List struct{}

// NewList creates a list strategy.
func NewList() *List {
	return &List{}
}

// Descriptor declares the list config surface.
func (l *List) Descriptor() engine.Descriptor {
	return engine.Descriptor{
		Required: []string{"values"},
		Optional: map[string]engine.Kind{
			"seed": engine.KindString,
		},
		Notes: "Samples one entry from values: plain strings, or {value, weight} maps for weighted selection.",
	}
}

// Generate samples one value.
func (l *List) Generate(cfg engine.Config, stream *rng.Stream) (string, *engine.Error) {
	if genErr := engine.ValidateConfig(cfg, l.Descriptor()); genErr != nil {
		return "", genErr
	}

	raw := cfg["values"]
	entries, ok := raw.([]any)
	if !ok {
		return "", engine.NewError(CodeInvalidValuesType, "values must be a list, got %T", raw)
	}
	if len(entries) == 0 {
		return "", engine.NewError(CodeEmptyValues, "values list cannot be empty")
	}

	options := make([]rng.Option, len(entries))
	weighted := false
	for i, entry := range entries {
		switch v := entry.(type) {
		case string:
			options[i] = rng.Option{Value: v, Weight: 1}
		case map[string]any:
			value, ok := v["value"].(string)
			if !ok {
				return "", engine.NewError(CodeInvalidValueEntry, "entry %d must declare a string value", i).
					WithDetail("index", i)
			}
			weight, ok := asFloat(v["weight"])
			if !ok || weight <= 0 {
				return "", engine.NewError(CodeInvalidValueEntry, "entry %d must declare a positive weight", i).
					WithDetail("index", i)
			}
			options[i] = rng.Option{Value: value, Weight: weight}
			weighted = true
		default:
			return "", engine.NewError(CodeInvalidValueEntry, "entry %d must be a string or a {value, weight} map, got %T", i, entry).
				WithDetail("index", i)
		}
	}

	if !weighted {
		values := make([]string, len(options))
		for i, opt := range options {
			values[i] = opt.Value
		}
		picked, err := rng.PickUniform(stream, values)
		if err != nil {
			return "", engine.NewError(CodeEmptyValues, "%v", err)
		}
		return picked, nil
	}

	picked, err := rng.PickWeighted(stream, options)
	if err != nil {
		return "", engine.NewError(CodeInvalidValueEntry, "%v", err)
	}
	return picked, nil
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
