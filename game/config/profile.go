package config

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/wricardo/maze-race/game/maze"
	"github.com/wricardo/maze-race/game/stats"
)

// Profile tunes a Maze Race process: maze generation, autosave cadence and
// where results are kept.
type Profile struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Generator        string   `json:"generator"`
	Seed             int64    `json:"seed"`
	AutosaveInterval Duration `json:"autosave_interval"`
	HistoryLimit     int      `json:"history_limit"`
	StatsBackend     string   `json:"stats_backend"`
}

// ProfileInfo summarizes a profile file for listings.
type ProfileInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Generator   string `json:"generator"`
}

// Duration is a time.Duration that reads and writes as "1s", "500ms", ...
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"1s\": %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Strategy returns the parsed generator strategy.
func (p *Profile) Strategy() maze.Strategy {
	s, err := maze.ParseStrategy(p.Generator)
	if err != nil {
		return maze.StrategyBacktracker
	}
	return s
}

// GeneratorOptions turns the profile into maze.Generator options.
func (p *Profile) GeneratorOptions() []maze.Option {
	opts := []maze.Option{maze.WithStrategy(p.Strategy())}
	if p.Seed != 0 {
		opts = append(opts, maze.WithSeed(p.Seed))
	}
	return opts
}

// ValidateProfile checks a profile for values the process cannot run with.
func ValidateProfile(p *Profile) error {
	if p == nil {
		return fmt.Errorf("profile cannot be nil")
	}
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if _, err := maze.ParseStrategy(p.Generator); err != nil {
		return err
	}
	if p.AutosaveInterval < 0 {
		return fmt.Errorf("autosave_interval cannot be negative")
	}
	if p.HistoryLimit < 0 {
		return fmt.Errorf("history_limit cannot be negative")
	}
	switch p.StatsBackend {
	case "", "file", "sqlite":
	default:
		return fmt.Errorf("unknown stats_backend %q", p.StatsBackend)
	}
	return nil
}

// DefaultProfile is used when the config directory holds no profiles.
func DefaultProfile() *Profile {
	return &Profile{
		Name:             "default",
		Description:      "Backtracker maze, file stats, 1s autosave",
		Generator:        string(maze.StrategyBacktracker),
		AutosaveInterval: Duration(time.Second),
		HistoryLimit:     stats.DefaultHistoryLimit,
		StatsBackend:     "file",
	}
}
