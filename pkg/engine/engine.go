package engine

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dyluth/weave/pkg/rng"
)

// DefaultStreamPrefix names streams for configs that carry neither a seed nor
// an explicit rng_stream override (only possible on internal recursive calls).
const DefaultStreamPrefix = "weave"

// Engine is the strategy registry and dispatch facade: the single entry point
// translating a configuration into a generated string or a structured Error.
//
// Engines are explicitly constructed and independent of each other. The
// registry is guarded for concurrent Register/Unregister against dispatch;
// individual generation calls are synchronous and single-threaded.
type Engine struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
	streams    StreamProvider
	observers  []Observer
	prefix     string
}

// NewEngine creates an empty engine with no strategies, no stream provider,
// and no observers attached.
func NewEngine() *Engine {
	return &Engine{
		strategies: make(map[string]Strategy),
		prefix:     DefaultStreamPrefix,
	}
}

// SetStreamProvider installs the collaborator used to acquire execution
// streams by resolved stream name. Without a provider, top-level calls that
// need one fall back to a fresh non-deterministic stream, flagged as such to
// every attached observer.
func (e *Engine) SetStreamProvider(p StreamProvider) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.streams = p
}

// AttachObserver registers an observer for lifecycle and stream-usage
// notifications. Observers never influence generation.
func (e *Engine) AttachObserver(o Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, o)
}

// Register adds a strategy under the normalized (trimmed, case-preserved)
// identifier, replacing any existing registration with the same id.
func (e *Engine) Register(id string, s Strategy) *Error {
	normalized := strings.TrimSpace(id)
	if normalized == "" {
		return NewError(CodeInvalidStrategyID, "strategy identifier cannot be empty")
	}
	if s == nil {
		return NewError(CodeInvalidStrategyID, "strategy instance cannot be nil")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.strategies[normalized] = s
	return nil
}

// Unregister removes a strategy. Removing an unknown id is a no-op.
func (e *Engine) Unregister(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.strategies, strings.TrimSpace(id))
}

// ListStrategies returns the registered identifiers in sorted order.
func (e *Engine) ListStrategies() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ids := make([]string, 0, len(e.strategies))
	for id := range e.strategies {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DescribeStrategy returns the descriptor a strategy declared, for external
// tooling. Fails with unknown_strategy for unregistered identifiers.
func (e *Engine) DescribeStrategy(id string) (Descriptor, *Error) {
	e.mu.RLock()
	s, ok := e.strategies[strings.TrimSpace(id)]
	e.mu.RUnlock()

	if !ok {
		return Descriptor{}, NewError(CodeUnknownStrategy, "no strategy registered as %q", strings.TrimSpace(id)).
			WithDetail("strategy", strings.TrimSpace(id))
	}
	return s.Descriptor(), nil
}

// Generate runs one top-level generation request. The config must carry a
// non-empty strategy identifier and a seed; an rng_stream override only
// renames the bookkeeping stream, it does not lift the seed requirement.
func (e *Engine) Generate(cfg Config) (string, *Error) {
	return e.generate(cfg, nil)
}

// Dispatch is the re-entrant entry point used by composite strategies. The
// explicit stream bypasses the seed requirement; everything else behaves
// exactly like Generate.
func (e *Engine) Dispatch(cfg Config, stream *rng.Stream) (string, *Error) {
	return e.generate(cfg, stream)
}

func (e *Engine) generate(cfg Config, override *rng.Stream) (string, *Error) {
	if cfg == nil {
		return "", NewError(CodeInvalidConfigType, "config must be a key/value map")
	}

	rawID, ok := cfg["strategy"]
	if !ok {
		return "", NewError(CodeMissingStrategy, "config is missing the strategy key")
	}
	id, ok := rawID.(string)
	if !ok {
		return "", NewError(CodeInvalidStrategyID, "strategy identifier must be a string, got %s", kindOf(rawID))
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return "", NewError(CodeInvalidStrategyID, "strategy identifier cannot be empty")
	}

	seed, hasSeed := "", false
	if rawSeed, present := cfg["seed"]; present {
		seed, ok = rawSeed.(string)
		if !ok {
			return "", NewError(CodeInvalidSeedType, "seed must be a string, got %s", kindOf(rawSeed))
		}
		hasSeed = true
	}
	if override == nil && !hasSeed {
		return "", NewError(CodeMissingSeed, "a seed is required when no explicit stream is supplied")
	}

	streamName, source, genErr := e.resolveStreamName(cfg, id, seed, hasSeed)
	if genErr != nil {
		return "", genErr
	}

	stream, fallback := e.acquireStream(override, streamName)

	e.mu.RLock()
	strategy, known := e.strategies[id]
	observers := make([]Observer, len(e.observers))
	copy(observers, e.observers)
	e.mu.RUnlock()

	if !known {
		return "", NewError(CodeUnknownStrategy, "no strategy registered as %q", id).
			WithDetail("strategy", id)
	}

	md := Metadata{
		GenerationID: uuid.NewString(),
		StrategyID:   id,
		Seed:         seed,
		StreamName:   streamName,
		Source:       source,
	}
	usage := StreamUsage{StrategyID: id, Source: source, Fallback: fallback}
	for _, o := range observers {
		o.StreamUsageRecorded(streamName, usage)
		o.GenerationStarted(cfg, md)
	}

	// Facade-only keys never reach the strategy.
	strategyCfg := cfg.Clone()
	delete(strategyCfg, "strategy")
	delete(strategyCfg, "rng_stream")

	result, genErr := strategy.Generate(strategyCfg, stream)
	if genErr != nil {
		for _, o := range observers {
			o.GenerationFailed(cfg, genErr, md)
		}
		return "", genErr
	}

	for _, o := range observers {
		o.GenerationCompleted(cfg, result, md)
	}
	return result, nil
}

// resolveStreamName implements the bookkeeping-name resolution order:
// explicit rng_stream override, then seed-derived, then default prefix.
func (e *Engine) resolveStreamName(cfg Config, id, seed string, hasSeed bool) (string, string, *Error) {
	if rawName, present := cfg["rng_stream"]; present {
		name, ok := rawName.(string)
		if !ok {
			return "", "", NewError(CodeInvalidStreamName, "rng_stream must be a string, got %s", kindOf(rawName))
		}
		return name, "explicit_override", nil
	}
	if hasSeed {
		return id + "::" + strings.TrimSpace(seed), "seed_derived", nil
	}
	return e.prefix + "::" + id, "default_prefix", nil
}

// acquireStream returns the execution stream for this call and whether the
// non-deterministic fallback was taken.
func (e *Engine) acquireStream(override *rng.Stream, streamName string) (*rng.Stream, bool) {
	if override != nil {
		return override, false
	}

	e.mu.RLock()
	provider := e.streams
	e.mu.RUnlock()

	if provider != nil {
		if s := provider.GetStream(streamName); s != nil {
			return s, false
		}
	}

	// No provider (or it declined the name): explicitly non-deterministic.
	return rng.NewStream(time.Now().UnixNano()), true
}
