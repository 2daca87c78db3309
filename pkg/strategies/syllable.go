package strategies

import (
	"strings"

	"github.com/dyluth/weave/pkg/engine"
	"github.com/dyluth/weave/pkg/rng"
)

// Error codes produced by the syllable strategy.
const (
	CodeInvalidSyllables    = "invalid_syllables"
	CodeInvalidMiddleBounds = "invalid_middle_bounds"
)

// Default middle-syllable bounds when a config sets neither.
const (
	defaultMinMiddle = 0
	defaultMaxMiddle = 2
)

// Syllable concatenates an initial syllable, a bounded run of middle
// syllables, and an optional final syllable into one word - the classic
// fantasy-name generator.
type Syllable struct{}

// NewSyllable creates a syllable strategy.
func NewSyllable() *Syllable {
	return &Syllable{}
}

// Descriptor declares the syllable config surface.
func (s *Syllable) Descriptor() engine.Descriptor {
	return engine.Descriptor{
		Required: []string{"syllables"},
		Optional: map[string]engine.Kind{
			"syllables":  engine.KindMap,
			"min_middle": engine.KindInt,
			"max_middle": engine.KindInt,
			"seed":       engine.KindString,
		},
		Notes: "Concatenates initial + middle* + final syllables from the syllables map (keys: initial, middle, final).",
	}
}

// Generate builds one word.
func (s *Syllable) Generate(cfg engine.Config, stream *rng.Stream) (string, *engine.Error) {
	if genErr := engine.ValidateConfig(cfg, s.Descriptor()); genErr != nil {
		return "", genErr
	}

	syllables, _ := cfg.Map("syllables")

	initial, genErr := syllableList(syllables, "initial")
	if genErr != nil {
		return "", genErr
	}
	if len(initial) == 0 {
		return "", engine.NewError(CodeInvalidSyllables, "syllables.initial cannot be empty")
	}
	middle, genErr := syllableList(syllables, "middle")
	if genErr != nil {
		return "", genErr
	}
	final, genErr := syllableList(syllables, "final")
	if genErr != nil {
		return "", genErr
	}

	minMiddle, maxMiddle := defaultMinMiddle, defaultMaxMiddle
	if v, ok := cfg.Int("min_middle"); ok {
		minMiddle = v
	}
	if v, ok := cfg.Int("max_middle"); ok {
		maxMiddle = v
	}
	if minMiddle < 0 || maxMiddle < minMiddle {
		return "", engine.NewError(CodeInvalidMiddleBounds, "need 0 <= min_middle <= max_middle, got %d..%d", minMiddle, maxMiddle).
			WithDetail("min_middle", minMiddle).
			WithDetail("max_middle", maxMiddle)
	}
	if len(middle) == 0 {
		// Nothing to repeat from.
		minMiddle, maxMiddle = 0, 0
	}

	var word strings.Builder
	picked, err := rng.PickUniform(stream, initial)
	if err != nil {
		return "", engine.NewError(CodeInvalidSyllables, "%v", err)
	}
	word.WriteString(picked)

	count := minMiddle
	if maxMiddle > minMiddle {
		count += stream.Intn(maxMiddle - minMiddle + 1)
	}
	for i := 0; i < count; i++ {
		picked, err = rng.PickUniform(stream, middle)
		if err != nil {
			return "", engine.NewError(CodeInvalidSyllables, "%v", err)
		}
		word.WriteString(picked)
	}

	if len(final) > 0 {
		picked, err = rng.PickUniform(stream, final)
		if err != nil {
			return "", engine.NewError(CodeInvalidSyllables, "%v", err)
		}
		word.WriteString(picked)
	}

	return word.String(), nil
}

// syllableList reads one syllable group from the syllables map: absent is
// fine (empty), present must be a list of strings.
func syllableList(syllables map[string]any, key string) ([]string, *engine.Error) {
	raw, present := syllables[key]
	if !present {
		return nil, nil
	}
	entries, ok := raw.([]any)
	if !ok {
		return nil, engine.NewError(CodeInvalidSyllables, "syllables.%s must be a list, got %T", key, raw).
			WithDetail("group", key)
	}
	out := make([]string, len(entries))
	for i, entry := range entries {
		text, ok := entry.(string)
		if !ok {
			return nil, engine.NewError(CodeInvalidSyllables, "syllables.%s[%d] must be a string, got %T", key, i, entry).
				WithDetail("group", key)
		}
		out[i] = text
	}
	return out, nil
}
