package storage

import (
	"encoding/json"
	"errors"

	"dexbench/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

func EncodeEpisode(e model.EpisodeRecord) ([]byte, error) {
	return json.Marshal(e)
}

func DecodeEpisode(data []byte) (model.EpisodeRecord, error) {
	var episode model.EpisodeRecord
	if err := json.Unmarshal(data, &episode); err != nil {
		return model.EpisodeRecord{}, err
	}
	if err := checkVersion(episode.VersionedRecord); err != nil {
		return model.EpisodeRecord{}, err
	}
	return episode, nil
}

func EncodeRun(r model.RunRecord) ([]byte, error) {
	return json.Marshal(r)
}

func DecodeRun(data []byte) (model.RunRecord, error) {
	var run model.RunRecord
	if err := json.Unmarshal(data, &run); err != nil {
		return model.RunRecord{}, err
	}
	if err := checkVersion(run.VersionedRecord); err != nil {
		return model.RunRecord{}, err
	}
	return run, nil
}

// Stamp sets the current schema and codec versions on a record.
func Stamp() model.VersionedRecord {
	return model.VersionedRecord{
		SchemaVersion: CurrentSchemaVersion,
		CodecVersion:  CurrentCodecVersion,
	}
}

func checkVersion(record model.VersionedRecord) error {
	if record.SchemaVersion != CurrentSchemaVersion || record.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}
