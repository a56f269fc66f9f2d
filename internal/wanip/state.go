package wanip

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// State is the saved record of the last observed WAN address. It is kept as
// a small YAML file next to the tool so the previous address survives
// between cron invocations.
type State struct {
	Address   string    `yaml:"address"`
	Previous  string    `yaml:"previous,omitempty"`
	CheckedAt time.Time `yaml:"checked_at"`
	ChangedAt time.Time `yaml:"changed_at"`
}

// LoadState reads the state file. A missing file is returned as a nil state
// with an os.IsNotExist error so first runs can be detected.
func LoadState(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var st State
	if err := yaml.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parse state file %s: %w", path, err)
	}
	return &st, nil
}

// Update records a newly observed address, rotating the current one into
// Previous when it changed.
func (s *State) Update(addr string, now time.Time) {
	if addr != s.Address {
		s.Previous = s.Address
		s.Address = addr
		s.ChangedAt = now
	}
	s.CheckedAt = now
}

// Save writes the state atomically via a temp file and rename, so a reader
// racing a writer never observes a half-written file.
func (s *State) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
