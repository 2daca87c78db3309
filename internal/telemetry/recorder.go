package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dyluth/weave/pkg/engine"
)

// Generation event phases.
const (
	PhaseStarted   = "started"
	PhaseCompleted = "completed"
	PhaseFailed    = "failed"
)

// GenerationEvent is the JSON payload published for each generation
// lifecycle notification.
type GenerationEvent struct {
	Phase        string         `json:"phase"`
	GenerationID string         `json:"generation_id"`
	StrategyID   string         `json:"strategy_id"`
	Seed         string         `json:"seed,omitempty"`
	StreamName   string         `json:"rng_stream"`
	Source       string         `json:"source"`
	Result       string         `json:"result,omitempty"`
	Error        map[string]any `json:"error,omitempty"`
	Timestamp    time.Time      `json:"timestamp"`
}

// Recorder is a Redis-backed observer. It publishes generation lifecycle
// events to weave:{instance}:generation_events and aggregates per-stream
// usage counters in the weave:{instance}:stream_usage hash.
//
// Observer notifications are fire-and-forget, so Redis failures never reach
// the engine; they are logged and the generation proceeds unaffected. The
// recorder is thread-safe.
type Recorder struct {
	rdb          *redis.Client
	instanceName string
	log          *zap.Logger
}

// NewRecorder creates a recorder for the specified instance.
// Returns an error if instanceName is empty. A nil logger disables failure
// logging.
func NewRecorder(redisOpts *redis.Options, instanceName string, log *zap.Logger) (*Recorder, error) {
	if instanceName == "" {
		return nil, fmt.Errorf("instance name cannot be empty")
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Recorder{
		rdb:          redis.NewClient(redisOpts),
		instanceName: instanceName,
		log:          log,
	}, nil
}

// Close closes the Redis connection. Implements io.Closer.
func (r *Recorder) Close() error {
	return r.rdb.Close()
}

// Ping verifies Redis connectivity. Useful for health checks.
func (r *Recorder) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func (r *Recorder) publish(event GenerationEvent) {
	event.Timestamp = time.Now().UTC()

	payload, err := json.Marshal(event)
	if err != nil {
		r.log.Warn("failed to marshal generation event", zap.Error(err))
		return
	}

	channel := GenerationEventsChannel(r.instanceName)
	if err := r.rdb.Publish(context.Background(), channel, payload).Err(); err != nil {
		r.log.Warn("failed to publish generation event", zap.Error(err))
	}
}

func eventFromMetadata(phase string, md engine.Metadata) GenerationEvent {
	return GenerationEvent{
		Phase:        phase,
		GenerationID: md.GenerationID,
		StrategyID:   md.StrategyID,
		Seed:         md.Seed,
		StreamName:   md.StreamName,
		Source:       md.Source,
	}
}

// GenerationStarted publishes a started event.
func (r *Recorder) GenerationStarted(_ engine.Config, md engine.Metadata) {
	r.publish(eventFromMetadata(PhaseStarted, md))
}

// GenerationCompleted publishes a completed event carrying the result.
func (r *Recorder) GenerationCompleted(_ engine.Config, result string, md engine.Metadata) {
	event := eventFromMetadata(PhaseCompleted, md)
	event.Result = result
	r.publish(event)
}

// GenerationFailed publishes a failed event carrying the structured error.
func (r *Recorder) GenerationFailed(_ engine.Config, genErr *engine.Error, md engine.Metadata) {
	event := eventFromMetadata(PhaseFailed, md)
	event.Error = genErr.Map()
	r.publish(event)
}

// StreamUsageRecorded increments the usage counter for the stream name.
func (r *Recorder) StreamUsageRecorded(streamName string, _ engine.StreamUsage) {
	key := StreamUsageKey(r.instanceName)
	if err := r.rdb.HIncrBy(context.Background(), key, streamName, 1).Err(); err != nil {
		r.log.Warn("failed to record stream usage", zap.String("rng_stream", streamName), zap.Error(err))
	}
}

// StreamUsage returns the aggregated per-stream usage counters.
func (r *Recorder) StreamUsage(ctx context.Context) (map[string]int64, error) {
	raw, err := r.rdb.HGetAll(ctx, StreamUsageKey(r.instanceName)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read stream usage from Redis: %w", err)
	}

	usage := make(map[string]int64, len(raw))
	for stream, count := range raw {
		var n int64
		if _, err := fmt.Sscanf(count, "%d", &n); err != nil {
			return nil, fmt.Errorf("corrupt stream usage counter for %q: %w", stream, err)
		}
		usage[stream] = n
	}

	return usage, nil
}

// Subscription represents an active Pub/Sub subscription to generation
// events. Caller must call Close() when done to clean up resources.
type Subscription struct {
	events <-chan *GenerationEvent
	errors <-chan error
	cancel func()
	once   sync.Once
}

// Events returns the channel of generation events.
// The channel is closed when the subscription is closed or the context is
// cancelled.
func (s *Subscription) Events() <-chan *GenerationEvent {
	return s.events
}

// Errors returns the channel of subscription errors.
// Errors include JSON unmarshaling failures and other non-fatal issues.
// The subscription continues after errors - messages are skipped.
func (s *Subscription) Errors() <-chan error {
	return s.errors
}

// Close stops the subscription and cleans up resources. Implements io.Closer.
// Safe to call multiple times.
func (s *Subscription) Close() error {
	s.once.Do(s.cancel)
	return nil
}

// SubscribeGenerationEvents subscribes to generation lifecycle events for
// this instance. Caller must call subscription.Close() when done; context
// cancellation also stops the subscription.
//
// Events are delivered on a buffered channel (size 10) to prevent blocking.
// Redis Pub/Sub is at-most-once: a slow subscriber may miss events.
func (r *Recorder) SubscribeGenerationEvents(ctx context.Context) (*Subscription, error) {
	channel := GenerationEventsChannel(r.instanceName)
	pubsub := r.rdb.Subscribe(ctx, channel)

	eventsChan := make(chan *GenerationEvent, 10)
	errorsChan := make(chan error, 10)

	subCtx, cancelFunc := context.WithCancel(ctx)

	go func() {
		defer close(eventsChan)
		defer close(errorsChan)
		defer pubsub.Close()

		ch := pubsub.Channel()

		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}

				var event GenerationEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					select {
					case errorsChan <- fmt.Errorf("failed to unmarshal generation event: %w", err):
					case <-subCtx.Done():
						return
					}
					continue
				}

				select {
				case eventsChan <- &event:
				case <-subCtx.Done():
					return
				}
			}
		}
	}()

	return &Subscription{
		events: eventsChan,
		errors: errorsChan,
		cancel: cancelFunc,
	}, nil
}
