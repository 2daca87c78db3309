package strategies

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dyluth/weave/pkg/engine"
	"github.com/dyluth/weave/pkg/rng"
)

// Error codes produced by the hybrid strategy.
const (
	CodeInvalidStepsType    = "invalid_steps_type"
	CodeEmptySteps          = "empty_steps"
	CodeInvalidStepEntry    = "invalid_step_entry"
	CodeInvalidStepConfig   = "invalid_step_config"
	CodeMissingStepStrategy = "missing_step_strategy"
	CodeHybridStepError     = "hybrid_step_error"
)

// placeholderPattern matches $alias / $index references inside step configs
// and the final template.
var placeholderPattern = regexp.MustCompile(`\$([A-Za-z0-9_]+)`)

// Hybrid executes an ordered list of step configs sequentially, exposing each
// step's output as a named placeholder to every later step.
//
// A step stores its result under its store_as alias (or its zero-based index)
// and later steps may reference it as $alias or $index anywhere inside their
// config strings, nested maps and lists included. Unresolved placeholders are
// left as literal text. The chain halts on the first failing step - there are
// no partial results.
type Hybrid struct {
	dispatcher engine.Dispatcher
}

// NewHybrid creates a hybrid strategy that re-enters generation through the
// given dispatcher.
func NewHybrid(d engine.Dispatcher) *Hybrid {
	return &Hybrid{dispatcher: d}
}

// Descriptor declares the hybrid config surface. The steps list itself is
// validated structurally in Generate, entry by entry.
func (h *Hybrid) Descriptor() engine.Descriptor {
	return engine.Descriptor{
		Required: []string{"steps"},
		Optional: map[string]engine.Kind{
			"template": engine.KindString,
			"seed":     engine.KindString,
		},
		Notes: "Runs steps in order; step outputs are available to later steps (and the final template) as $alias / $index placeholders.",
	}
}

// Generate runs the chain. See the type comment for the algorithm.
func (h *Hybrid) Generate(cfg engine.Config, stream *rng.Stream) (string, *engine.Error) {
	if genErr := engine.ValidateConfig(cfg, h.Descriptor()); genErr != nil {
		return "", genErr
	}

	rawSteps := cfg["steps"]
	steps, ok := rawSteps.([]any)
	if !ok {
		return "", engine.NewError(CodeInvalidStepsType, "steps must be a list, got %T", rawSteps)
	}
	if len(steps) == 0 {
		return "", engine.NewError(CodeEmptySteps, "steps list cannot be empty")
	}

	parentSeed, _ := cfg.String("seed")
	router := rng.RouterFromStream(stream)

	placeholders := make(map[string]string)
	lastResult := ""

	for i, raw := range steps {
		entry, ok := raw.(map[string]any)
		if !ok {
			return "", engine.NewError(CodeInvalidStepEntry, "step %d must be a map, got %T", i, raw).
				WithDetail("index", i)
		}

		alias, genErr := stepAlias(entry, i)
		if genErr != nil {
			return "", genErr
		}

		stepCfg, genErr := stepConfig(entry, i, alias)
		if genErr != nil {
			return "", genErr
		}

		// Resolve placeholders accumulated from all prior steps before the
		// step's own seed is injected, so authored seeds may reference them
		// but injected ones stay canonical.
		stepCfg = substituteConfig(stepCfg, placeholders)
		if _, declared := stepCfg["seed"]; !declared {
			stepCfg["seed"] = fmt.Sprintf("%s::step_%s", parentSeed, alias)
		}

		stepStream := router.DeriveStream(alias, strconv.Itoa(i))

		result, genErr := h.dispatcher.Dispatch(stepCfg, stepStream)
		if genErr != nil {
			return "", engine.NewError(CodeHybridStepError, "step %d (%s) failed: %s", i, alias, genErr.Message).
				WithDetail("index", i).
				WithDetail("alias", alias).
				WithDetail("code", genErr.Code).
				WithDetail("message", genErr.Message).
				WithDetail("details", genErr.Details)
		}

		placeholders[alias] = result
		placeholders[strconv.Itoa(i)] = result
		lastResult = result
	}

	if template, declared := cfg.String("template"); declared {
		return substituteString(template, placeholders), nil
	}
	return lastResult, nil
}

// stepAlias extracts the step's alias: trimmed store_as when present, the
// positional index otherwise.
func stepAlias(entry map[string]any, index int) (string, *engine.Error) {
	raw, present := entry["store_as"]
	if !present {
		return strconv.Itoa(index), nil
	}
	name, ok := raw.(string)
	if !ok {
		return "", engine.NewError(CodeInvalidStepEntry, "step %d store_as must be a string, got %T", index, raw).
			WithDetail("index", index)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return strconv.Itoa(index), nil
	}
	return name, nil
}

// stepConfig extracts the step's effective config: the nested config map when
// present, else the entry itself (which must then name a strategy). Either
// way the result is a private deep copy.
func stepConfig(entry map[string]any, index int, alias string) (engine.Config, *engine.Error) {
	if raw, present := entry["config"]; present {
		nested, ok := raw.(map[string]any)
		if !ok {
			return nil, engine.NewError(CodeInvalidStepConfig, "step %d config must be a map, got %T", index, raw).
				WithDetail("index", index).
				WithDetail("alias", alias)
		}
		return engine.Config(nested).Clone(), nil
	}

	if _, present := entry["strategy"]; !present {
		return nil, engine.NewError(CodeMissingStepStrategy, "step %d declares neither a config map nor a strategy", index).
			WithDetail("index", index).
			WithDetail("alias", alias)
	}

	cfg := engine.Config(entry).Clone()
	delete(cfg, "store_as")
	return cfg, nil
}

// substituteConfig resolves placeholders inside every string value anywhere
// within the config, including nested maps and lists.
func substituteConfig(cfg engine.Config, table map[string]string) engine.Config {
	out := make(engine.Config, len(cfg))
	for k, v := range cfg {
		out[k] = substituteValue(v, table)
	}
	return out
}

func substituteValue(v any, table map[string]string) any {
	switch val := v.(type) {
	case string:
		return substituteString(val, table)
	case map[string]any:
		m := make(map[string]any, len(val))
		for k, nested := range val {
			m[k] = substituteValue(nested, table)
		}
		return m
	case []any:
		list := make([]any, len(val))
		for i, nested := range val {
			list[i] = substituteValue(nested, table)
		}
		return list
	default:
		return v
	}
}

// substituteString replaces each $name reference that has a table entry;
// unresolved references stay literal.
func substituteString(s string, table map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(s, func(match string) string {
		if value, ok := table[match[1:]]; ok {
			return value
		}
		return match
	})
}
