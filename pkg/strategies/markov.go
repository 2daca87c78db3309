package strategies

import (
	"strings"

	"github.com/dyluth/weave/pkg/engine"
	"github.com/dyluth/weave/pkg/model"
	"github.com/dyluth/weave/pkg/rng"
)

// Error codes produced by the markov strategy.
const (
	CodeMissingResource     = "missing_resource"
	CodeResourceLoadFailed  = "resource_load_failed"
	CodeInvalidResourceType = "invalid_resource_type"
	CodeInvalidMaxLength    = "invalid_max_length"
	CodeMaxLengthExceeded   = "max_length_exceeded"
)

// DefaultMaxLength bounds a Markov walk when a config does not set its own
// max_length.
const DefaultMaxLength = 32

// Markov walks a weighted token-transition model loaded through an external
// model provider.
//
// Each distinct state label visited during one walk gets its own sub-stream,
// derived once from the caller's stream and cached for the duration of the
// call: repeated visits to a state stay internally consistent while each
// state's local randomness is decorrelated from the others'. Start-token
// sampling uses a reserved sub-stream of its own.
type Markov struct {
	models model.Provider
}

// NewMarkov creates a markov strategy loading models from the given provider.
func NewMarkov(models model.Provider) *Markov {
	return &Markov{models: models}
}

// Descriptor declares the markov config surface.
func (m *Markov) Descriptor() engine.Descriptor {
	return engine.Descriptor{
		Required: []string{"markov_model_path"},
		Optional: map[string]engine.Kind{
			"markov_model_path": engine.KindString,
			"max_length":        engine.KindInt,
			"seed":              engine.KindString,
		},
		Notes: "Walks the weighted transition model at markov_model_path until an end token, concatenating visited tokens.",
	}
}

// Generate loads and validates the model, then walks it. See the type comment
// for the stream bookkeeping.
func (m *Markov) Generate(cfg engine.Config, stream *rng.Stream) (string, *engine.Error) {
	if genErr := engine.ValidateConfig(cfg, m.Descriptor()); genErr != nil {
		return "", genErr
	}

	path, _ := cfg.String("markov_model_path")

	maxLength := DefaultMaxLength
	if v, ok := cfg.Int("max_length"); ok {
		maxLength = v
	}
	if maxLength <= 0 {
		return "", engine.NewError(CodeInvalidMaxLength, "max_length must be > 0, got %d", maxLength).
			WithDetail("max_length", maxLength)
	}

	chain, genErr := m.loadModel(path)
	if genErr != nil {
		return "", genErr
	}
	if genErr := chain.Validate(); genErr != nil {
		return "", genErr.WithDetail("resource", path)
	}

	return walk(chain, stream, maxLength)
}

func (m *Markov) loadModel(path string) (*model.Model, *engine.Error) {
	if m.models == nil {
		return nil, engine.NewError(CodeResourceLoadFailed, "no model provider configured").
			WithDetail("resource", path)
	}
	if !m.models.Exists(path) {
		return nil, engine.NewError(CodeMissingResource, "model %q not found", path).
			WithDetail("resource", path)
	}
	chain, err := m.models.Load(path)
	if err != nil {
		return nil, engine.NewError(CodeResourceLoadFailed, "loading model %q: %v", path, err).
			WithDetail("resource", path).
			WithDetail("error", err.Error())
	}
	if chain == nil {
		return nil, engine.NewError(CodeInvalidResourceType, "provider returned no model data for %q", path).
			WithDetail("resource", path)
	}
	return chain, nil
}

// walk performs one deterministic chain walk over a validated model.
func walk(chain *model.Model, stream *rng.Stream, maxLength int) (string, *engine.Error) {
	router := rng.RouterFromStream(stream)
	stateStreams := make(map[string]*rng.Stream)
	streamFor := func(state string) *rng.Stream {
		if s, ok := stateStreams[state]; ok {
			return s
		}
		s := router.DeriveStream("state", state)
		stateStreams[state] = s
		return s
	}

	current, genErr := pickToken(chain, router.DeriveStream("start"), startLabel, chain.StartTokens)
	if genErr != nil {
		return "", genErr
	}

	var tokens []string
	for !chain.IsEnd(current) {
		if len(tokens) >= maxLength {
			return "", engine.NewError(CodeMaxLengthExceeded, "walk exceeded max_length %d without reaching an end token", maxLength).
				WithDetail("max_length", maxLength).
				WithDetail("partial", strings.Join(tokens, ""))
		}
		tokens = append(tokens, current)

		current, genErr = pickToken(chain, streamFor(current), current, chain.Transitions[current])
		if genErr != nil {
			return "", genErr
		}
	}

	return strings.Join(tokens, ""), nil
}

// startLabel tags pick failures on the start-token list.
const startLabel = "start_tokens"

// pickToken samples one weighted token with per-option resolved temperature.
// Validation has already vetted weights and temperatures, so a pick failure
// indicates a model invariant violation and is reported as such.
func pickToken(chain *model.Model, stream *rng.Stream, where string, options []model.WeightedToken) (string, *engine.Error) {
	picks := make([]rng.Option, len(options))
	for i, opt := range options {
		picks[i] = rng.Option{
			Value:       opt.Token,
			Weight:      opt.Weight,
			Temperature: chain.TemperatureFor(opt),
		}
	}
	token, err := rng.PickWeighted(stream, picks)
	if err != nil {
		return "", engine.NewError(model.CodeInvalidTransitions, "sampling %s: %v", where, err).
			WithDetail("state", where)
	}
	return token, nil
}
