package stats

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"dexbench/internal/model"
)

const (
	runsDirName      = "runs"
	runIndexFileName = "run_index.json"

	configFileName   = "config.json"
	episodesFileName = "episodes.json"
	summaryFileName  = "summary.json"
)

// RunConfig is the launch configuration persisted next to a run's results
// so a run directory is self-describing.
type RunConfig struct {
	RunID            string  `json:"run_id"`
	Task             string  `json:"task"`
	Episodes         int     `json:"episodes"`
	Workers          int     `json:"workers"`
	Seed             int64   `json:"seed"`
	ControlFrequency float64 `json:"control_frequency"`
	CreatedAtUTC     string  `json:"created_at_utc"`

	TrackVelSync               bool     `json:"track_vel_sync"`
	TrackVerticalSync          bool     `json:"track_vertical_sync"`
	TrackSlippage              bool     `json:"track_slippage"`
	SlipObjects                []string `json:"slip_objects,omitempty"`
	SlipSampleWindow           int      `json:"slip_sample_window,omitempty"`
	TrackCollisions            bool     `json:"track_collisions"`
	TrackCartesianJerk         bool     `json:"track_cartesian_jerk"`
	TrackJointJerk             bool     `json:"track_joint_jerk"`
	TrackCartesianPathLength   bool     `json:"track_cartesian_path_length"`
	TrackJointPathLength       bool     `json:"track_joint_path_length"`
	TrackOrientationPathLength bool     `json:"track_orientation_path_length"`
}

// RunArtifacts bundles everything one run writes to disk.
type RunArtifacts struct {
	Config   RunConfig
	Episodes []model.EpisodeRecord
	Summary  RunSummary
}

// RunIndexEntry is the lightweight per-run row kept in run_index.json so
// past runs can be listed without opening their directories.
type RunIndexEntry struct {
	RunID        string  `json:"run_id"`
	Task         string  `json:"task"`
	Episodes     int     `json:"episodes"`
	Seed         int64   `json:"seed"`
	SuccessRate  float64 `json:"success_rate"`
	CreatedAtUTC string  `json:"created_at_utc"`
}

// WriteRunArtifacts writes config.json, episodes.json and summary.json
// under <baseDir>/runs/<runID>/ and returns the run directory path.
func WriteRunArtifacts(baseDir string, artifacts RunArtifacts) (string, error) {
	if baseDir == "" {
		return "", errors.New("artifacts base directory is required")
	}
	if artifacts.Config.RunID == "" {
		return "", errors.New("run id is required")
	}

	runDir := filepath.Join(baseDir, runsDirName, artifacts.Config.RunID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", fmt.Errorf("create run directory: %w", err)
	}

	if err := writeJSON(filepath.Join(runDir, configFileName), artifacts.Config); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, episodesFileName), artifacts.Episodes); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, summaryFileName), artifacts.Summary); err != nil {
		return "", err
	}
	return runDir, nil
}

// ReadRunSummary loads a previously written summary.json for one run.
func ReadRunSummary(baseDir, runID string) (RunSummary, bool, error) {
	path := filepath.Join(baseDir, runsDirName, runID, summaryFileName)
	payload, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RunSummary{}, false, nil
		}
		return RunSummary{}, false, err
	}

	var summary RunSummary
	if err := json.Unmarshal(payload, &summary); err != nil {
		return RunSummary{}, false, fmt.Errorf("parse summary for run %s: %w", runID, err)
	}
	return summary, true, nil
}

// AppendRunIndex upserts one entry into run_index.json, keeping the
// index sorted newest-first.
func AppendRunIndex(baseDir string, entry RunIndexEntry) error {
	if entry.RunID == "" {
		return errors.New("run id is required")
	}

	entries, err := ListRunIndex(baseDir)
	if err != nil {
		return err
	}

	filtered := make([]RunIndexEntry, 0, len(entries)+1)
	for _, existing := range entries {
		if existing.RunID != entry.RunID {
			filtered = append(filtered, existing)
		}
	}
	filtered = append(filtered, entry)
	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].CreatedAtUTC != filtered[j].CreatedAtUTC {
			return filtered[i].CreatedAtUTC > filtered[j].CreatedAtUTC
		}
		return filtered[i].RunID > filtered[j].RunID
	})

	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return fmt.Errorf("create artifacts directory: %w", err)
	}
	return writeJSON(filepath.Join(baseDir, runIndexFileName), filtered)
}

// ListRunIndex returns the run index, newest-first. A missing index file
// is an empty index, not an error.
func ListRunIndex(baseDir string) ([]RunIndexEntry, error) {
	payload, err := os.ReadFile(filepath.Join(baseDir, runIndexFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var entries []RunIndexEntry
	if err := json.Unmarshal(payload, &entries); err != nil {
		return nil, fmt.Errorf("parse run index: %w", err)
	}
	return entries, nil
}

func writeJSON(path string, v any) error {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, append(payload, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
