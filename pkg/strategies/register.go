package strategies

import (
	"github.com/dyluth/weave/pkg/engine"
	"github.com/dyluth/weave/pkg/model"
)

// RegisterDefaults registers every built-in strategy on the engine under its
// canonical identifier. The composite strategies re-enter the same engine;
// the markov strategy loads models from the given provider (nil is allowed
// and makes every markov call fail with resource_load_failed).
func RegisterDefaults(e *engine.Engine, models model.Provider) *engine.Error {
	byID := map[string]engine.Strategy{
		"template": NewTemplate(e),
		"hybrid":   NewHybrid(e),
		"markov":   NewMarkov(models),
		"list":     NewList(),
		"syllable": NewSyllable(),
		"const":    NewConst(),
	}
	for id, s := range byID {
		if genErr := e.Register(id, s); genErr != nil {
			return genErr
		}
	}
	return nil
}
