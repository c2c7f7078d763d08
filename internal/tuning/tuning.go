// Package tuning holds the operator-adjustable knobs, loaded from yaml.
package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	TickRateHz           int     `yaml:"tick_rate_hz"`
	DefaultSegmentLength float32 `yaml:"default_segment_length"`
	MaxPointsRecorded    int     `yaml:"max_points_recorded"`
	SeamSearchBudgetMs   int     `yaml:"seam_search_budget_ms"`
	Parallelism          int     `yaml:"parallelism"`
}

func Defaults() Tuning {
	return Tuning{
		TickRateHz:           30,
		DefaultSegmentLength: 20,
		MaxPointsRecorded:    500,
		SeamSearchBudgetMs:   1000,
	}
}

func Load(path string) (Tuning, error) {
	var t Tuning
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, err
	}
	return t, nil
}

func (t Tuning) Validate() error {
	if t.TickRateHz <= 0 {
		return fmt.Errorf("tuning: tick_rate_hz must be positive, got %d", t.TickRateHz)
	}
	if t.DefaultSegmentLength <= 0 {
		return fmt.Errorf("tuning: default_segment_length must be positive, got %g", t.DefaultSegmentLength)
	}
	if t.MaxPointsRecorded <= 0 {
		return fmt.Errorf("tuning: max_points_recorded must be positive, got %d", t.MaxPointsRecorded)
	}
	if t.SeamSearchBudgetMs <= 0 {
		return fmt.Errorf("tuning: seam_search_budget_ms must be positive, got %d", t.SeamSearchBudgetMs)
	}
	if t.Parallelism < 0 {
		return fmt.Errorf("tuning: parallelism must be >= 0, got %d", t.Parallelism)
	}
	return nil
}
