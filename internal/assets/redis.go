package assets

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"

	"github.com/dyluth/weave/pkg/model"
)

// RedisProvider loads Markov models stored as YAML documents in namespaced
// Redis keys (weave:{instance}:model:{id}). It lets several authoring
// machines share one model catalogue.
//
// The provider is thread-safe and can be used concurrently from multiple
// goroutines.
type RedisProvider struct {
	rdb          *redis.Client
	instanceName string
}

// NewRedisProvider creates a provider for the specified instance.
// Returns an error if instanceName is empty.
func NewRedisProvider(redisOpts *redis.Options, instanceName string) (*RedisProvider, error) {
	if instanceName == "" {
		return nil, fmt.Errorf("instance name cannot be empty")
	}

	return &RedisProvider{
		rdb:          redis.NewClient(redisOpts),
		instanceName: instanceName,
	}, nil
}

// Close closes the Redis connection. Implements io.Closer.
func (p *RedisProvider) Close() error {
	return p.rdb.Close()
}

// Ping verifies Redis connectivity. Useful for health checks.
func (p *RedisProvider) Ping(ctx context.Context) error {
	return p.rdb.Ping(ctx).Err()
}

// Exists reports whether a model document is stored under the id.
func (p *RedisProvider) Exists(id string) bool {
	n, err := p.rdb.Exists(context.Background(), ModelKey(p.instanceName, id)).Result()
	return err == nil && n > 0
}

// Load fetches and parses the model document for id.
func (p *RedisProvider) Load(id string) (*model.Model, error) {
	data, err := p.rdb.Get(context.Background(), ModelKey(p.instanceName, id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read model from Redis: %w", err)
	}

	var m model.Model
	if err := yaml.Unmarshal([]byte(data), &m); err != nil {
		return nil, fmt.Errorf("failed to parse model YAML: %w", err)
	}

	return &m, nil
}

// Store validates and writes a model document under the id, making it
// loadable by every provider pointed at the same instance.
func (p *RedisProvider) Store(ctx context.Context, id string, m *model.Model) error {
	if genErr := m.Validate(); genErr != nil {
		return fmt.Errorf("invalid model: %w", genErr)
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to serialize model: %w", err)
	}

	key := ModelKey(p.instanceName, id)
	if err := p.rdb.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write model to Redis: %w", err)
	}

	return nil
}
