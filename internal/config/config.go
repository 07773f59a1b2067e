// Package config loads benchmark run configuration from YAML files.
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"dexbench/internal/harness"
	"dexbench/internal/metrics"
	"dexbench/internal/model"
	"dexbench/internal/storage"
	"dexbench/internal/task"
)

// TrackingConfig mirrors the metric toggles of a run. Sides defaults to
// the task's arm sides; slip objects default to the task's object set.
type TrackingConfig struct {
	Sides            []string `yaml:"sides"`
	VelSync          bool     `yaml:"vel_sync"`
	VerticalSync     bool     `yaml:"vertical_sync"`
	Slippage         bool     `yaml:"slippage"`
	SlipObjects      []string `yaml:"slip_objects"`
	SlipSampleWindow int      `yaml:"slip_sample_window"`
	Collisions       bool     `yaml:"collisions"`
	CartesianJerk    bool     `yaml:"cartesian_jerk"`
	JointJerk        bool     `yaml:"joint_jerk"`
	CartesianPath    bool     `yaml:"cartesian_path_length"`
	JointPath        bool     `yaml:"joint_path_length"`
	OrientationPath  bool     `yaml:"orientation_path_length"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Kind string `yaml:"kind"`
	Path string `yaml:"path"`
}

// Config is one benchmark launch description.
type Config struct {
	Task             string         `yaml:"task"`
	Episodes         int            `yaml:"episodes"`
	Workers          int            `yaml:"workers"`
	Seed             int64          `yaml:"seed"`
	ControlFrequency float64        `yaml:"control_frequency"`
	ArtifactsDir     string         `yaml:"artifacts_dir"`
	Store            StoreConfig    `yaml:"store"`
	Tracking         TrackingConfig `yaml:"tracking"`
}

// Default returns a runnable configuration: the block-handover task with
// every metric enabled and the in-memory store.
func Default() Config {
	return Config{
		Task:             "block-handover",
		Episodes:         harness.DefaultEpisodes,
		Workers:          harness.DefaultWorkers,
		ControlFrequency: task.DefaultControlFrequency,
		Store:            StoreConfig{Kind: storage.DefaultStoreKind()},
		Tracking: TrackingConfig{
			VelSync:         true,
			VerticalSync:    true,
			Slippage:        true,
			Collisions:      true,
			CartesianJerk:   true,
			JointJerk:       true,
			CartesianPath:   true,
			JointPath:       true,
			OrientationPath: true,
		},
	}
}

// Load reads a YAML config file, layering it over Default.
func Load(path string) (Config, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(payload))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the fields that do not depend on the resolved task.
func (c Config) Validate() error {
	if c.Task == "" {
		return fmt.Errorf("task is required")
	}
	if c.Episodes < 0 {
		return fmt.Errorf("episodes must be non-negative, got %d", c.Episodes)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Workers)
	}
	if c.ControlFrequency < 0 {
		return fmt.Errorf("control frequency must be non-negative, got %v", c.ControlFrequency)
	}
	if c.Tracking.SlipSampleWindow < 0 {
		return fmt.Errorf("slip sample window must be non-negative, got %d", c.Tracking.SlipSampleWindow)
	}
	if c.Store.Kind == "sqlite" && c.Store.Path == "" {
		return fmt.Errorf("sqlite store requires a path")
	}
	return nil
}

// MetricsConfig resolves the tracking toggles against a task, filling
// sides and slip objects from the task when the config leaves them unset.
func (c Config) MetricsConfig(tk task.Task) metrics.TrackingConfig {
	sides := tk.Sides()
	if len(c.Tracking.Sides) > 0 {
		sides = make([]model.Side, 0, len(c.Tracking.Sides))
		for _, side := range c.Tracking.Sides {
			sides = append(sides, model.Side(side))
		}
	}

	slipObjects := c.Tracking.SlipObjects
	if c.Tracking.Slippage && len(slipObjects) == 0 {
		slipObjects = tk.Objects()
	}

	return metrics.TrackingConfig{
		Sides:                      sides,
		TrackVelSync:               c.Tracking.VelSync,
		TrackVerticalSync:          c.Tracking.VerticalSync,
		TrackSlippage:              c.Tracking.Slippage,
		SlipObjects:                slipObjects,
		SlipSampleWindow:           c.Tracking.SlipSampleWindow,
		TrackCollisions:            c.Tracking.Collisions,
		TrackCartesianJerk:         c.Tracking.CartesianJerk,
		TrackJointJerk:             c.Tracking.JointJerk,
		TrackCartesianPathLength:   c.Tracking.CartesianPath,
		TrackJointPathLength:       c.Tracking.JointPath,
		TrackOrientationPathLength: c.Tracking.OrientationPath,
	}
}
