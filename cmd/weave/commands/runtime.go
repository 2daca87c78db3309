package commands

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dyluth/weave/internal/assets"
	"github.com/dyluth/weave/internal/config"
	"github.com/dyluth/weave/internal/streams"
	"github.com/dyluth/weave/internal/telemetry"
	"github.com/dyluth/weave/pkg/engine"
	"github.com/dyluth/weave/pkg/model"
	"github.com/dyluth/weave/pkg/strategies"
)

// runtime bundles the fully wired engine with the collaborators that need
// explicit cleanup.
type runtime struct {
	cfg    *config.WeaveConfig
	log    *zap.Logger
	engine *engine.Engine

	fileModels *assets.FileProvider
	recorder   *telemetry.Recorder
}

// newRuntime loads the project configuration and assembles the engine: model
// provider, deterministic stream pool, default strategies, and the
// configured observers.
func newRuntime() (*runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	rt := &runtime{cfg: cfg, log: log}

	var models model.Provider
	switch {
	case cfg.Models != nil && cfg.Models.Dir != "":
		fileModels, err := assets.NewFileProvider(cfg.Models.Dir)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.fileModels = fileModels
		models = fileModels
	case cfg.Telemetry != nil && cfg.Telemetry.Redis != nil:
		redisModels, err := assets.NewRedisProvider(redisOptions(cfg.Telemetry.Redis), cfg.Project.Name)
		if err != nil {
			rt.Close()
			return nil, err
		}
		models = redisModels
	}

	e := engine.NewEngine()
	e.SetStreamProvider(streams.NewPool(cfg.Project.Seed))
	e.AttachObserver(telemetry.NewLogger(log))

	if cfg.Telemetry != nil && cfg.Telemetry.Redis != nil {
		recorder, err := telemetry.NewRecorder(redisOptions(cfg.Telemetry.Redis), cfg.Project.Name, log)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.recorder = recorder
		e.AttachObserver(recorder)
	}

	if genErr := strategies.RegisterDefaults(e, models); genErr != nil {
		rt.Close()
		return nil, fmt.Errorf("failed to register strategies: %w", genErr)
	}

	rt.engine = e
	return rt, nil
}

// Close releases the runtime's external resources.
func (rt *runtime) Close() {
	if rt.fileModels != nil {
		rt.fileModels.Close()
	}
	if rt.recorder != nil {
		rt.recorder.Close()
	}
	if rt.log != nil {
		rt.log.Sync()
	}
}

func redisOptions(cfg *config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// newLogger builds the CLI logger at the configured level; --verbose forces
// debug.
func newLogger(level string) (*zap.Logger, error) {
	zapLevel := zapcore.InfoLevel
	if verbose {
		level = "debug"
	}
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	}

	zapCfg := zap.NewDevelopmentConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(zapLevel)
	return zapCfg.Build()
}
