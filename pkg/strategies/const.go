package strategies

import (
	"github.com/dyluth/weave/pkg/engine"
	"github.com/dyluth/weave/pkg/rng"
)

// CodeInvalidConstValue is returned when a const config's value is missing or
// not a string.
const CodeInvalidConstValue = "invalid_const_value"

// Const echoes its configured value verbatim. It draws nothing from its
// stream, which makes it the stub of choice for deterministic tests and
// template dry-runs.
type Const struct{}

// NewConst creates a const strategy.
func NewConst() *Const {
	return &Const{}
}

// Descriptor declares the const config surface.
func (c *Const) Descriptor() engine.Descriptor {
	return engine.Descriptor{
		Required: []string{"value"},
		Optional: map[string]engine.Kind{
			"value": engine.KindString,
			"seed":  engine.KindString,
		},
		Notes: "Returns value unchanged; useful for fixed fragments and testing.",
	}
}

// Generate returns the configured value.
func (c *Const) Generate(cfg engine.Config, _ *rng.Stream) (string, *engine.Error) {
	if genErr := engine.ValidateConfig(cfg, c.Descriptor()); genErr != nil {
		return "", genErr
	}
	value, ok := cfg.String("value")
	if !ok {
		return "", engine.NewError(CodeInvalidConstValue, "value must be a string")
	}
	return value, nil
}
