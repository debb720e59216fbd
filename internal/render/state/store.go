package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// SignState tracks the render inputs and output of a single sign.
type SignState struct {
	InputsHash string    `json:"inputs_hash"`
	RenderedAt time.Time `json:"rendered_at"`
	OutputPath string    `json:"output_path"`
}

// RunState tracks render state across all signs for change detection.
type RunState struct {
	ConfigHash string               `json:"config_hash"`
	Signs      map[string]SignState `json:"signs"`
}

// Load reads render state from the given path. A missing or corrupt file
// returns an empty state without error.
func Load(path string) (*RunState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return emptyState(), nil
	}

	var rs RunState
	if err := json.Unmarshal(data, &rs); err != nil {
		return emptyState(), nil
	}

	if rs.Signs == nil {
		rs.Signs = map[string]SignState{}
	}
	return &rs, nil
}

// Save writes the render state atomically to the given path.
func (rs *RunState) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(rs, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}

func emptyState() *RunState {
	return &RunState{
		Signs: map[string]SignState{},
	}
}
