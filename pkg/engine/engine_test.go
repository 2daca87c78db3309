package engine

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyluth/weave/pkg/rng"
)

// echoStrategy returns its "value" key, or the stream's first drawn value
// when no value is configured. It also records the config it received.
type echoStrategy struct {
	lastCfg Config
}

func (s *echoStrategy) Generate(cfg Config, stream *rng.Stream) (string, *Error) {
	s.lastCfg = cfg
	if v, ok := cfg.String("value"); ok {
		return v, nil
	}
	return strconv.FormatInt(stream.Int63(), 10), nil
}

func (s *echoStrategy) Descriptor() Descriptor {
	return Descriptor{Optional: map[string]Kind{"value": KindString, "seed": KindString}}
}

// failingStrategy always returns a fixed structured error.
type failingStrategy struct{}

func (failingStrategy) Generate(Config, *rng.Stream) (string, *Error) {
	return "", NewError("stub_failure", "always fails")
}

func (failingStrategy) Descriptor() Descriptor { return Descriptor{} }

// recordingObserver captures every notification it receives.
type recordingObserver struct {
	started   []Metadata
	completed []Metadata
	failed    []*Error
	usage     map[string]StreamUsage
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{usage: make(map[string]StreamUsage)}
}

func (o *recordingObserver) GenerationStarted(_ Config, md Metadata) {
	o.started = append(o.started, md)
}

func (o *recordingObserver) GenerationCompleted(_ Config, _ string, md Metadata) {
	o.completed = append(o.completed, md)
}

func (o *recordingObserver) GenerationFailed(_ Config, genErr *Error, _ Metadata) {
	o.failed = append(o.failed, genErr)
}

func (o *recordingObserver) StreamUsageRecorded(name string, usage StreamUsage) {
	o.usage[name] = usage
}

// routerProvider derives deterministic streams per name from a fixed base
// seed, the way internal/streams does.
type routerProvider struct{ seed int64 }

func (p routerProvider) GetStream(name string) *rng.Stream {
	return rng.NewRouter(p.seed).DeriveStream(name)
}

func newTestEngine(t *testing.T) (*Engine, *echoStrategy) {
	t.Helper()
	e := NewEngine()
	echo := &echoStrategy{}
	require.Nil(t, e.Register("echo", echo))
	e.SetStreamProvider(routerProvider{seed: 1})
	return e, echo
}

func TestGenerate_Success(t *testing.T) {
	e, _ := newTestEngine(t)

	result, genErr := e.Generate(Config{"strategy": "echo", "seed": "s1", "value": "hello"})
	require.Nil(t, genErr)
	assert.Equal(t, "hello", result)
}

func TestGenerate_ConfigValidation(t *testing.T) {
	e, _ := newTestEngine(t)

	t.Run("nil config", func(t *testing.T) {
		_, genErr := e.Generate(nil)
		require.NotNil(t, genErr)
		assert.Equal(t, CodeInvalidConfigType, genErr.Code)
	})

	t.Run("missing strategy", func(t *testing.T) {
		_, genErr := e.Generate(Config{"seed": "s1"})
		require.NotNil(t, genErr)
		assert.Equal(t, CodeMissingStrategy, genErr.Code)
	})

	t.Run("non-string strategy", func(t *testing.T) {
		_, genErr := e.Generate(Config{"strategy": 7, "seed": "s1"})
		require.NotNil(t, genErr)
		assert.Equal(t, CodeInvalidStrategyID, genErr.Code)
	})

	t.Run("blank strategy", func(t *testing.T) {
		_, genErr := e.Generate(Config{"strategy": "   ", "seed": "s1"})
		require.NotNil(t, genErr)
		assert.Equal(t, CodeInvalidStrategyID, genErr.Code)
	})

	t.Run("missing seed", func(t *testing.T) {
		_, genErr := e.Generate(Config{"strategy": "echo"})
		require.NotNil(t, genErr)
		assert.Equal(t, CodeMissingSeed, genErr.Code)
	})

	t.Run("non-string seed", func(t *testing.T) {
		_, genErr := e.Generate(Config{"strategy": "echo", "seed": 42})
		require.NotNil(t, genErr)
		assert.Equal(t, CodeInvalidSeedType, genErr.Code)
	})

	t.Run("non-string rng_stream", func(t *testing.T) {
		_, genErr := e.Generate(Config{"strategy": "echo", "seed": "s1", "rng_stream": 7})
		require.NotNil(t, genErr)
		assert.Equal(t, CodeInvalidStreamName, genErr.Code)
	})

	t.Run("unknown strategy", func(t *testing.T) {
		_, genErr := e.Generate(Config{"strategy": "nope", "seed": "s1"})
		require.NotNil(t, genErr)
		assert.Equal(t, CodeUnknownStrategy, genErr.Code)
		assert.Equal(t, "nope", genErr.Detail("strategy"))
	})
}

func TestGenerate_StripsFacadeKeys(t *testing.T) {
	e, echo := newTestEngine(t)

	_, genErr := e.Generate(Config{"strategy": "echo", "seed": "s1", "rng_stream": "custom", "value": "x"})
	require.Nil(t, genErr)

	_, hasStrategy := echo.lastCfg["strategy"]
	_, hasStream := echo.lastCfg["rng_stream"]
	assert.False(t, hasStrategy)
	assert.False(t, hasStream)
	assert.Equal(t, "x", echo.lastCfg["value"])
}

func TestGenerate_StrategyReceivesPrivateCopy(t *testing.T) {
	e, echo := newTestEngine(t)
	cfg := Config{"strategy": "echo", "seed": "s1", "value": "x"}

	_, genErr := e.Generate(cfg)
	require.Nil(t, genErr)

	echo.lastCfg["value"] = "mutated"
	assert.Equal(t, "x", cfg["value"])
}

func TestGenerate_Deterministic(t *testing.T) {
	e, _ := newTestEngine(t)
	cfg := Config{"strategy": "echo", "seed": "s1"}

	first, genErr := e.Generate(cfg)
	require.Nil(t, genErr)
	second, genErr := e.Generate(cfg)
	require.Nil(t, genErr)
	assert.Equal(t, first, second)

	other, genErr := e.Generate(Config{"strategy": "echo", "seed": "s2"})
	require.Nil(t, genErr)
	assert.NotEqual(t, first, other)
}

func TestGenerate_StreamNameResolution(t *testing.T) {
	t.Run("seed derived", func(t *testing.T) {
		e, _ := newTestEngine(t)
		obs := newRecordingObserver()
		e.AttachObserver(obs)

		_, genErr := e.Generate(Config{"strategy": "echo", "seed": "  s1  "})
		require.Nil(t, genErr)

		usage, ok := obs.usage["echo::s1"]
		require.True(t, ok, "expected usage recorded for echo::s1, got %v", obs.usage)
		assert.Equal(t, "seed_derived", usage.Source)
		assert.False(t, usage.Fallback)
	})

	t.Run("explicit override", func(t *testing.T) {
		e, _ := newTestEngine(t)
		obs := newRecordingObserver()
		e.AttachObserver(obs)

		_, genErr := e.Generate(Config{"strategy": "echo", "seed": "s1", "rng_stream": "my-stream"})
		require.Nil(t, genErr)

		usage, ok := obs.usage["my-stream"]
		require.True(t, ok)
		assert.Equal(t, "explicit_override", usage.Source)
	})

	t.Run("default prefix on seedless dispatch", func(t *testing.T) {
		e, _ := newTestEngine(t)
		obs := newRecordingObserver()
		e.AttachObserver(obs)

		_, genErr := e.Dispatch(Config{"strategy": "echo"}, rng.NewStream(1))
		require.Nil(t, genErr)

		usage, ok := obs.usage["weave::echo"]
		require.True(t, ok)
		assert.Equal(t, "default_prefix", usage.Source)
	})
}

func TestGenerate_FallbackIsFlagged(t *testing.T) {
	e := NewEngine()
	require.Nil(t, e.Register("echo", &echoStrategy{}))
	obs := newRecordingObserver()
	e.AttachObserver(obs)

	_, genErr := e.Generate(Config{"strategy": "echo", "seed": "s1"})
	require.Nil(t, genErr)

	usage, ok := obs.usage["echo::s1"]
	require.True(t, ok)
	assert.True(t, usage.Fallback)
}

func TestGenerate_ObserverLifecycle(t *testing.T) {
	e, _ := newTestEngine(t)
	require.Nil(t, e.Register("failing", failingStrategy{}))
	obs := newRecordingObserver()
	e.AttachObserver(obs)

	_, genErr := e.Generate(Config{"strategy": "echo", "seed": "s1", "value": "v"})
	require.Nil(t, genErr)
	require.Len(t, obs.started, 1)
	require.Len(t, obs.completed, 1)
	assert.Equal(t, "echo", obs.completed[0].StrategyID)
	assert.Equal(t, "s1", obs.completed[0].Seed)
	assert.NotEmpty(t, obs.completed[0].GenerationID)

	_, genErr = e.Generate(Config{"strategy": "failing", "seed": "s1"})
	require.NotNil(t, genErr)
	require.Len(t, obs.failed, 1)
	assert.Equal(t, "stub_failure", obs.failed[0].Code)
}

func TestDispatch_DoesNotRequireSeed(t *testing.T) {
	e, _ := newTestEngine(t)

	first, genErr := e.Dispatch(Config{"strategy": "echo"}, rng.NewStream(77))
	require.Nil(t, genErr)
	second, genErr := e.Dispatch(Config{"strategy": "echo"}, rng.NewStream(77))
	require.Nil(t, genErr)
	assert.Equal(t, first, second)
}

func TestRegistry(t *testing.T) {
	t.Run("list is sorted", func(t *testing.T) {
		e := NewEngine()
		require.Nil(t, e.Register("zebra", &echoStrategy{}))
		require.Nil(t, e.Register("alpha", &echoStrategy{}))
		require.Nil(t, e.Register("  mid  ", &echoStrategy{}))

		assert.Equal(t, []string{"alpha", "mid", "zebra"}, e.ListStrategies())
	})

	t.Run("register replaces", func(t *testing.T) {
		e := NewEngine()
		require.Nil(t, e.Register("echo", failingStrategy{}))
		require.Nil(t, e.Register("echo", &echoStrategy{}))
		e.SetStreamProvider(routerProvider{seed: 1})

		result, genErr := e.Generate(Config{"strategy": "echo", "seed": "s", "value": "ok"})
		require.Nil(t, genErr)
		assert.Equal(t, "ok", result)
	})

	t.Run("register rejects blank id", func(t *testing.T) {
		e := NewEngine()
		genErr := e.Register("  ", &echoStrategy{})
		require.NotNil(t, genErr)
		assert.Equal(t, CodeInvalidStrategyID, genErr.Code)
	})

	t.Run("unregister removes", func(t *testing.T) {
		e := NewEngine()
		require.Nil(t, e.Register("echo", &echoStrategy{}))
		e.Unregister("echo")
		assert.Empty(t, e.ListStrategies())
	})

	t.Run("describe unknown strategy", func(t *testing.T) {
		e := NewEngine()
		_, genErr := e.DescribeStrategy("ghost")
		require.NotNil(t, genErr)
		assert.Equal(t, CodeUnknownStrategy, genErr.Code)
	})

	t.Run("describe returns declared descriptor", func(t *testing.T) {
		e := NewEngine()
		require.Nil(t, e.Register("echo", &echoStrategy{}))

		d, genErr := e.DescribeStrategy("echo")
		require.Nil(t, genErr)
		assert.Equal(t, KindString, d.Optional["value"])
	})
}
