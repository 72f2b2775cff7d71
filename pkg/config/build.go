package config

import (
	cverrors "github.com/conveyor-go/conveyor/pkg/common/errors"
	"github.com/conveyor-go/conveyor/pkg/metrics"
	"github.com/conveyor-go/conveyor/pkg/pipeline/batch"
)

// Build constructs a started batch from config and registry. Stage names in
// the config must be registered.
func Build(reg *Registry, cfg *BatchConfig) (batch.Batch, error) {
	stages, err := stageConfigs(reg, cfg)
	if err != nil {
		return nil, err
	}
	b, err := batch.New(stages...)
	if err != nil {
		return nil, err
	}
	if err := b.Start(); err != nil {
		return nil, err
	}
	return b, nil
}

// BuildWithMetrics is Build with an instrumented batch. The config's Name is
// used as the metrics batch_name label and must be non-empty.
func BuildWithMetrics(reg *Registry, cfg *BatchConfig, mc metrics.Config) (batch.Batch, error) {
	stages, err := stageConfigs(reg, cfg)
	if err != nil {
		return nil, err
	}
	b, err := batch.NewWithConfigAndMetrics(batch.Config{Stages: stages}, cfg.Name, mc)
	if err != nil {
		return nil, err
	}
	if err := b.Start(); err != nil {
		return nil, err
	}
	return b, nil
}

// BuildAll constructs a started batch for each entry in multi. Keys are batch
// names. If a batch config's Name is empty, the map key is used.
func BuildAll(reg *Registry, multi *MultiBatchConfig) (map[string]batch.Batch, error) {
	if multi == nil {
		return nil, cverrors.NewValidationError("config", "batches", nil, "must not be nil")
	}
	out := make(map[string]batch.Batch, len(multi.Batches))
	for name, cfg := range multi.Batches {
		if cfg.Name == "" {
			cfg.Name = name
		}
		b, err := Build(reg, &cfg)
		if err != nil {
			return nil, err
		}
		out[name] = b
	}
	return out, nil
}

func stageConfigs(reg *Registry, cfg *BatchConfig) ([]batch.StageConfig, error) {
	if cfg == nil {
		return nil, cverrors.NewValidationError("config", "batch", nil, "must not be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	stages := make([]batch.StageConfig, 0, len(cfg.Stages))
	for _, ref := range cfg.Stages {
		fn, ok := reg.Get(ref.Name)
		if !ok {
			return nil, cverrors.NewValidationError("config", "stage", ref.Name, "not registered").
				WithHint("register the transform before building")
		}
		workers := ref.Workers
		if workers == 0 {
			workers = batch.DefaultWorkers
		}
		stages = append(stages, batch.StageConfig{
			Name:      ref.Name,
			Transform: fn,
			Workers:   workers,
		})
	}
	return stages, nil
}
