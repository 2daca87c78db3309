package assets

import "fmt"

// Redis key pattern helpers
//
// All Redis keys are namespaced by instance name so multiple weave projects
// can safely share a single Redis server.
//
// Key pattern: weave:{instance_name}:{entity}:{id}

// ModelKey returns the Redis key holding one model document.
// Pattern: weave:{instance_name}:model:{model_id}
func ModelKey(instanceName, modelID string) string {
	return fmt.Sprintf("weave:%s:model:%s", instanceName, modelID)
}
