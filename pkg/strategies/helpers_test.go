package strategies

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dyluth/weave/pkg/engine"
	"github.com/dyluth/weave/pkg/model"
	"github.com/dyluth/weave/pkg/rng"
)

// streamEcho echoes the first value drawn from its stream, making derived
// child streams observable in test output.
type streamEcho struct{}

func (streamEcho) Generate(_ engine.Config, stream *rng.Stream) (string, *engine.Error) {
	return strconv.FormatInt(stream.Int63(), 10), nil
}

func (streamEcho) Descriptor() engine.Descriptor { return engine.Descriptor{} }

// captureStrategy records the config it was handed and echoes its output key.
type captureStrategy struct {
	configs []engine.Config
}

func (c *captureStrategy) Generate(cfg engine.Config, _ *rng.Stream) (string, *engine.Error) {
	c.configs = append(c.configs, cfg)
	out, _ := cfg.String("output")
	return out, nil
}

func (c *captureStrategy) Descriptor() engine.Descriptor {
	return engine.Descriptor{Optional: map[string]engine.Kind{"output": engine.KindString}}
}

// memProvider serves models from memory.
type memProvider struct {
	models map[string]*model.Model
	errs   map[string]error
}

func (p *memProvider) Exists(id string) bool {
	_, inModels := p.models[id]
	_, inErrs := p.errs[id]
	return inModels || inErrs
}

func (p *memProvider) Load(id string) (*model.Model, error) {
	if err, ok := p.errs[id]; ok {
		return nil, err
	}
	if m, ok := p.models[id]; ok {
		return m, nil
	}
	return nil, fmt.Errorf("model %q not found", id)
}

// namedStreams is a deterministic stream provider: the resolved stream name
// (which embeds the request seed) fully determines the stream.
type namedStreams struct{}

func (namedStreams) GetStream(name string) *rng.Stream {
	return rng.NewRouter(0).DeriveStream(name)
}

// newTestEngine wires a full engine: defaults plus the test stubs, backed by
// a deterministic stream provider.
func newTestEngine(t *testing.T, models model.Provider) (*engine.Engine, *captureStrategy) {
	t.Helper()
	e := engine.NewEngine()
	require.Nil(t, RegisterDefaults(e, models))
	e.SetStreamProvider(namedStreams{})
	capture := &captureStrategy{}
	require.Nil(t, e.Register("stream_echo", streamEcho{}))
	require.Nil(t, e.Register("capture", capture))
	return e, capture
}

// splitOn splits without strings.Split so empty segments stay visible.
func splitOn(s string, sep byte) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

// linearModel builds a model that always walks a -> b -> END.
func linearModel() *model.Model {
	return &model.Model{
		States:      []string{"a", "b"},
		StartTokens: []model.WeightedToken{{Token: "a", Weight: 1}},
		EndTokens:   []string{"END"},
		Transitions: map[string][]model.WeightedToken{
			"a": {{Token: "b", Weight: 1}},
			"b": {{Token: "END", Weight: 1}},
		},
		DefaultTemperature: 1.0,
	}
}

// loopModel builds a model that can never reach its end token.
func loopModel() *model.Model {
	return &model.Model{
		States:      []string{"a"},
		StartTokens: []model.WeightedToken{{Token: "a", Weight: 1}},
		EndTokens:   []string{"END"},
		Transitions: map[string][]model.WeightedToken{
			"a": {{Token: "a", Weight: 1}},
		},
		DefaultTemperature: 1.0,
	}
}

// branchingModel builds a model with genuine random choices at every state.
func branchingModel() *model.Model {
	return &model.Model{
		States:      []string{"ka", "zu", "ri"},
		StartTokens: []model.WeightedToken{{Token: "ka", Weight: 2}, {Token: "zu", Weight: 1}},
		EndTokens:   []string{"END"},
		Transitions: map[string][]model.WeightedToken{
			"ka": {{Token: "zu", Weight: 1}, {Token: "ri", Weight: 1}, {Token: "END", Weight: 1}},
			"zu": {{Token: "ka", Weight: 1}, {Token: "END", Weight: 2}},
			"ri": {{Token: "END", Weight: 1}, {Token: "ka", Weight: 1}},
		},
		DefaultTemperature: 1.0,
	}
}
