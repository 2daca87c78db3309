// Package model defines the Markov model data consumed by the markov
// strategy, the structural invariants the engine enforces before any walk,
// and the Provider contract through which models are loaded. The engine never
// parses file formats itself - providers do (internal/assets ships file- and
// Redis-backed ones).
package model

import "github.com/dyluth/weave/pkg/engine"

// Error codes for violated model invariants.
const (
	CodeInvalidStates         = "invalid_model_states"
	CodeInvalidStartTokens    = "invalid_model_start_tokens"
	CodeInvalidEndTokens      = "invalid_model_end_tokens"
	CodeInvalidTransitions    = "invalid_model_transitions"
	CodeUnknownTokenReference = "unknown_token_reference"
	CodeNonPositiveWeight     = "non_positive_weight"
	CodeNonPositiveTemp       = "non_positive_temperature"
)

// WeightedToken is one weighted candidate in a start-token list or a state's
// transition list. Temperature is an optional per-option override; zero means
// "not set".
type WeightedToken struct {
	Token       string  `yaml:"token"`
	Weight      float64 `yaml:"weight"`
	Temperature float64 `yaml:"temperature,omitempty"`
}

// Model is a weighted token-transition model. It is read-only during a walk.
type Model struct {
	States             []string                   `yaml:"states"`
	StartTokens        []WeightedToken            `yaml:"start_tokens"`
	EndTokens          []string                   `yaml:"end_tokens"`
	Transitions        map[string][]WeightedToken `yaml:"transitions"`
	DefaultTemperature float64                    `yaml:"default_temperature"`
	TokenTemperatures  map[string]float64         `yaml:"token_temperatures,omitempty"`
}

// IsEnd reports whether token is an end token.
func (m *Model) IsEnd(token string) bool {
	for _, t := range m.EndTokens {
		if t == token {
			return true
		}
	}
	return false
}

// IsState reports whether token is a declared state.
func (m *Model) IsState(token string) bool {
	for _, s := range m.States {
		if s == token {
			return true
		}
	}
	return false
}

// TemperatureFor resolves the effective temperature for one weighted option:
// the option's own override, else the model's per-token override, else the
// model's default temperature.
func (m *Model) TemperatureFor(opt WeightedToken) float64 {
	if opt.Temperature > 0 {
		return opt.Temperature
	}
	if t, ok := m.TokenTemperatures[opt.Token]; ok && t > 0 {
		return t
	}
	return m.DefaultTemperature
}

// Validate enforces the structural invariants a model must satisfy before a
// walk: non-empty states, start tokens and end tokens, a positive default
// temperature and positive overrides, positive weights everywhere, every
// declared state walkable (non-empty transition list), and every referenced
// token resolvable to a state or an end token.
func (m *Model) Validate() *engine.Error {
	if len(m.States) == 0 {
		return engine.NewError(CodeInvalidStates, "model declares no states")
	}
	if len(m.StartTokens) == 0 {
		return engine.NewError(CodeInvalidStartTokens, "model declares no start tokens")
	}
	if len(m.EndTokens) == 0 {
		return engine.NewError(CodeInvalidEndTokens, "model declares no end tokens")
	}
	if m.DefaultTemperature <= 0 {
		return engine.NewError(CodeNonPositiveTemp, "default temperature must be > 0, got %v", m.DefaultTemperature).
			WithDetail("temperature", m.DefaultTemperature)
	}
	for token, temp := range m.TokenTemperatures {
		if temp <= 0 {
			return engine.NewError(CodeNonPositiveTemp, "temperature override for %q must be > 0, got %v", token, temp).
				WithDetail("token", token).
				WithDetail("temperature", temp)
		}
	}

	if genErr := m.validateOptions("start_tokens", m.StartTokens); genErr != nil {
		return genErr
	}

	for _, state := range m.States {
		options, ok := m.Transitions[state]
		if !ok || len(options) == 0 {
			return engine.NewError(CodeInvalidTransitions, "state %q has no transitions", state).
				WithDetail("state", state)
		}
	}
	for state, options := range m.Transitions {
		if !m.IsState(state) {
			return engine.NewError(CodeInvalidTransitions, "transitions declared for unknown state %q", state).
				WithDetail("state", state)
		}
		if genErr := m.validateOptions("transitions["+state+"]", options); genErr != nil {
			return genErr
		}
	}

	return nil
}

func (m *Model) validateOptions(where string, options []WeightedToken) *engine.Error {
	for _, opt := range options {
		if opt.Weight <= 0 {
			return engine.NewError(CodeNonPositiveWeight, "%s: token %q has non-positive weight %v", where, opt.Token, opt.Weight).
				WithDetail("token", opt.Token).
				WithDetail("weight", opt.Weight)
		}
		if opt.Temperature < 0 {
			return engine.NewError(CodeNonPositiveTemp, "%s: token %q has negative temperature %v", where, opt.Token, opt.Temperature).
				WithDetail("token", opt.Token).
				WithDetail("temperature", opt.Temperature)
		}
		if !m.IsState(opt.Token) && !m.IsEnd(opt.Token) {
			return engine.NewError(CodeUnknownTokenReference, "%s: token %q is neither a state nor an end token", where, opt.Token).
				WithDetail("token", opt.Token)
		}
	}
	return nil
}
