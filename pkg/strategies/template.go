package strategies

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dyluth/weave/pkg/engine"
	"github.com/dyluth/weave/pkg/rng"
)

// Error codes produced by the template strategy.
const (
	CodeInvalidMaxDepth        = "invalid_max_depth"
	CodeRecursionDepthExceeded = "template_recursion_depth_exceeded"
	CodeEmptyToken             = "empty_token"
	CodeMissingTemplateToken   = "missing_template_token"
	CodeInvalidSubGenerator    = "invalid_sub_generator"
)

// DefaultMaxDepth bounds template recursion when a config does not set its
// own max_depth. Recursion is bounded structurally - there is no timeout to
// fall back on.
const DefaultMaxDepth = 8

// Template recursively expands bracketed tokens into nested generation calls.
//
// A template string like "[adjective] [noun]" is scanned left to right; each
// [token] is resolved by dispatching the matching sub_generators entry
// through the engine with a freshly derived child stream, and literal text is
// copied verbatim. Repeated occurrences of the same token each get their own
// occurrence-indexed stream, so "[x][x]" draws two independent but still
// reproducible values.
type Template struct {
	dispatcher engine.Dispatcher
}

// NewTemplate creates a template strategy that re-enters generation through
// the given dispatcher.
func NewTemplate(d engine.Dispatcher) *Template {
	return &Template{dispatcher: d}
}

// Descriptor declares the template config surface.
func (t *Template) Descriptor() engine.Descriptor {
	return engine.Descriptor{
		Required: []string{"template_string"},
		Optional: map[string]engine.Kind{
			"template_string": engine.KindString,
			"sub_generators":  engine.KindMap,
			"max_depth":       engine.KindInt,
			"recursion_depth": engine.KindInt,
			"seed":            engine.KindString,
		},
		Notes: "Expands [token] occurrences via sub_generators; text outside brackets is copied verbatim.",
	}
}

// Generate expands the template. See the type comment for the algorithm; all
// failures, including nested ones, surface as structured errors.
func (t *Template) Generate(cfg engine.Config, stream *rng.Stream) (string, *engine.Error) {
	if genErr := engine.ValidateConfig(cfg, t.Descriptor()); genErr != nil {
		return "", genErr
	}

	template, _ := cfg.String("template_string")

	maxDepth := DefaultMaxDepth
	if v, ok := cfg.Int("max_depth"); ok {
		maxDepth = v
	}
	if maxDepth <= 0 {
		return "", engine.NewError(CodeInvalidMaxDepth, "max_depth must be > 0, got %d", maxDepth).
			WithDetail("max_depth", maxDepth)
	}

	depth := 0
	if v, ok := cfg.Int("recursion_depth"); ok {
		depth = v
	}
	if depth >= maxDepth {
		return "", engine.NewError(CodeRecursionDepthExceeded, "recursion depth %d reached max_depth %d", depth, maxDepth).
			WithDetail("depth", depth).
			WithDetail("max_depth", maxDepth)
	}

	subGenerators, _ := cfg.Map("sub_generators")
	parentSeed, _ := cfg.String("seed")
	router := rng.RouterFromStream(stream)

	// Occurrence counters are per distinct token text within this expansion,
	// not global: they feed the child seed and child stream path.
	occurrences := make(map[string]int)

	var out strings.Builder
	rest := template
	for {
		open := strings.IndexByte(rest, '[')
		if open < 0 {
			out.WriteString(rest)
			break
		}
		closing := strings.IndexByte(rest[open+1:], ']')
		if closing < 0 {
			// No matching bracket: the remainder is literal text.
			out.WriteString(rest)
			break
		}

		out.WriteString(rest[:open])
		token := rest[open+1 : open+1+closing]
		rest = rest[open+1+closing+1:]

		if token == "" {
			return "", engine.NewError(CodeEmptyToken, "template contains an empty [] token")
		}

		occurrence := occurrences[token]
		occurrences[token] = occurrence + 1

		resolved, genErr := t.resolveToken(token, occurrence, depth, maxDepth, parentSeed, subGenerators, router)
		if genErr != nil {
			return "", genErr
		}
		out.WriteString(resolved)
	}

	return out.String(), nil
}

// resolveToken builds the child config for one token occurrence and
// dispatches it on its own derived stream.
func (t *Template) resolveToken(token string, occurrence, depth, maxDepth int, parentSeed string, subGenerators map[string]any, router rng.Router) (string, *engine.Error) {
	raw, ok := subGenerators[token]
	if !ok {
		available := make([]string, 0, len(subGenerators))
		for name := range subGenerators {
			available = append(available, name)
		}
		sort.Strings(available)
		return "", engine.NewError(CodeMissingTemplateToken, "no sub-generator for token %q", token).
			WithDetail("token", token).
			WithDetail("available", available)
	}

	childMap, ok := raw.(map[string]any)
	if !ok {
		return "", engine.NewError(CodeInvalidSubGenerator, "sub-generator for token %q must be a map, got %T", token, raw).
			WithDetail("token", token)
	}

	child := engine.Config(childMap).Clone()
	child["recursion_depth"] = depth + 1
	if _, declared := child["max_depth"]; !declared {
		child["max_depth"] = maxDepth
	}
	if _, declared := child["seed"]; !declared {
		child["seed"] = fmt.Sprintf("%s::%s::%d", parentSeed, token, occurrence)
	}

	childStream := router.DeriveStream(token, strconv.Itoa(occurrence), strconv.Itoa(depth))

	result, genErr := t.dispatcher.Dispatch(child, childStream)
	if genErr != nil {
		// Forward the child failure unchanged, enriched with this occurrence's
		// context when the child has not already recorded one.
		if genErr.Detail("template_token") == nil {
			genErr = genErr.WithDetail("template_token", token).
				WithDetail("template_occurrence", occurrence)
		}
		return "", genErr
	}
	return result, nil
}
