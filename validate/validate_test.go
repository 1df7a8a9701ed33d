package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/maze-race/game/engine"
	"github.com/wricardo/maze-race/game/maze"
	"github.com/wricardo/maze-race/game/session"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func writeSave(t *testing.T, state *engine.SessionState) string {
	t.Helper()
	var b strings.Builder
	require.NoError(t, session.Encode(&b, state))
	return writeFile(t, session.SaveFile, b.String())
}

func pausedSession(t *testing.T) *engine.SessionState {
	t.Helper()
	gen, err := maze.NewGenerator(maze.WithSeed(5))
	require.NoError(t, err)
	state := engine.NewSessionState(gen.Generate(maze.Position{X: 1, Y: 1}))
	state.Mode = engine.ModePaused
	state.Names = [2]string{"Ann", "Bob"}
	state.Countdown = 40
	return state
}

func hasMessage(result ValidationResult, substr string) bool {
	for _, msg := range result.Errors {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}

func TestValidateProfile(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantValid bool
		message   string
	}{
		{
			name:      "Valid profile",
			content:   `{"name": "Classic", "generator": "backtracker", "autosave_interval": "1s", "stats_backend": "file"}`,
			wantValid: true,
			message:   "Sample maze: 31x31",
		},
		{
			name:      "Fixed seed is reported",
			content:   `{"name": "Seeded", "generator": "jump-scan", "seed": 12, "autosave_interval": "1s"}`,
			wantValid: true,
			message:   "Fixed seed 12",
		},
		{
			name:      "Autosave disabled is reported",
			content:   `{"name": "Manual", "generator": "backtracker", "autosave_interval": "0s"}`,
			wantValid: true,
			message:   "Autosave disabled",
		},
		{
			name:      "Unknown generator",
			content:   `{"name": "Prim", "generator": "prim"}`,
			wantValid: false,
			message:   "Invalid profile",
		},
		{
			name:      "Unknown stats backend",
			content:   `{"name": "Redis", "generator": "backtracker", "stats_backend": "redis"}`,
			wantValid: false,
			message:   "stats_backend",
		},
		{
			name:      "Invalid JSON",
			content:   `{"name": "test", invalid json}`,
			wantValid: false,
			message:   "failed to parse config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "profile.json", tt.content)
			result := validateProfile(path)

			assert.Equal(t, tt.wantValid, result.Valid, "%v", result.Errors)
			assert.True(t, hasMessage(result, tt.message), "expected %q in %v", tt.message, result.Errors)
			assert.Equal(t, "profile.json", result.File)
		})
	}
}

func TestValidateProfile_MissingFile(t *testing.T) {
	result := validateProfile("/non/existent/profile.json")
	assert.False(t, result.Valid)
	assert.True(t, hasMessage(result, "File not found"), "%v", result.Errors)
}

func TestValidateSave_Valid(t *testing.T) {
	result := validateSave(writeSave(t, pausedSession(t)))

	require.True(t, result.Valid, "%v", result.Errors)
	for _, want := range []string{"mode paused", "countdown 40", "Player 1: Ann", "Saved maze: 31x31"} {
		assert.True(t, hasMessage(result, want), "expected %q in %v", want, result.Errors)
	}
}

func TestValidateSave_ParseError(t *testing.T) {
	tests := []struct {
		name    string
		content string
		message string
	}{
		{"Unknown mode", "9\n", "Line 1 (mode)"},
		{"Empty file", "", "Line 1 (mode)"},
		{"Bad countdown", "4\nAnn\nBob\n1 1\n1 1\n0 0\nsoon\n", "Line 7 (countdown)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateSave(writeFile(t, session.SaveFile, tt.content))
			require.False(t, result.Valid)
			assert.True(t, hasMessage(result, tt.message), "expected %q in %v", tt.message, result.Errors)
		})
	}
}

func TestValidateSave_ImperfectMaze(t *testing.T) {
	// A single corridor: consistent, but rooms are left uncarved
	rows := [][]maze.Cell{
		{1, 1, 1, 1, 1},
		{1, 0, 0, 0, 1},
		{1, 1, 1, 0, 1},
		{1, 1, 1, 0, 1},
		{1, 1, 1, 1, 1},
	}
	grid, err := maze.FromRows(rows)
	require.NoError(t, err)
	state := engine.NewSessionState(grid)
	state.Mode = engine.ModePlaying
	state.Names = [2]string{"Ann", "Bob"}

	result := validateSave(writeSave(t, state))
	require.False(t, result.Valid, "an imperfect maze fails validation")
	assert.True(t, hasMessage(result, "not a perfect maze"), "%v", result.Errors)
	assert.True(t, hasMessage(result, "Saved maze is 5x5, the server plays 31x31"), "%v", result.Errors)
}

func TestValidateSave_MissingFile(t *testing.T) {
	result := validateSave("/non/existent/savegame.txt")
	assert.False(t, result.Valid)
	assert.True(t, hasMessage(result, "Failed to read file"), "%v", result.Errors)
}

func TestValidateFile_DispatchesByExtension(t *testing.T) {
	profile := writeFile(t, "hunt.json", `{"name": "Hunt", "generator": "jump-scan"}`)
	result := validateFile(profile)
	assert.True(t, hasMessage(result, "jump-scan generator"), "expected a profile check for .json, got %v", result.Errors)

	save := writeSave(t, pausedSession(t))
	result = validateFile(save)
	assert.True(t, hasMessage(result, "Saved maze"), "expected a save check, got %v", result.Errors)
}

func TestRepositoryProfilesAreValid(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "configs", "*.json"))
	require.NoError(t, err)
	if len(files) == 0 {
		t.Skip("Skipping test - configs directory not found")
	}

	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			result := validateProfile(file)
			assert.True(t, result.Valid, "%v", result.Errors)
		})
	}
}
