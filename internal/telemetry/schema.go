package telemetry

import "fmt"

// Redis key pattern helpers
//
// Telemetry keys and channels follow the same namespacing as model storage:
// weave:{instance_name}:{entity}.

// StreamUsageKey returns the Redis key of the per-stream usage counter hash.
// Pattern: weave:{instance_name}:stream_usage
func StreamUsageKey(instanceName string) string {
	return fmt.Sprintf("weave:%s:stream_usage", instanceName)
}

// GenerationEventsChannel returns the Pub/Sub channel name for generation
// lifecycle events.
// Pattern: weave:{instance_name}:generation_events
func GenerationEventsChannel(instanceName string) string {
	return fmt.Sprintf("weave:%s:generation_events", instanceName)
}
