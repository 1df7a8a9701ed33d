// Command validate provides a small CLI that checks Maze Race files before a
// server picks them up. Profiles (*.json) are checked for:
//   - JSON structure and known generator / stats backend names
//   - A sample maze from the profile being perfect and solvable
//
// Save files are checked for:
//   - The line-oriented save format, reporting the failing line and field
//   - A consistent session (positions on open cells, sane countdown)
//   - A perfect maze with a route from start to goal
//
// Without arguments it validates ../configs/*.json and ../savegame.txt.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/maze-race/game/config"
	"github.com/wricardo/maze-race/game/maze"
	"github.com/wricardo/maze-race/game/session"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) info(format string, args ...interface{}) {
	r.Errors = append(r.Errors, "✓ "+fmt.Sprintf(format, args...))
}

// validateProfile loads a profile and carves a sample maze with it.
func validateProfile(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	profile, err := config.ReadProfile(filePath)
	if err != nil {
		switch {
		case errors.Is(err, config.ErrConfigNotFound):
			result.fail("File not found")
		case errors.Is(err, config.ErrInvalidConfig):
			result.fail("Invalid profile: %v", err)
		default:
			result.fail("%v", err)
		}
		return result
	}

	result.info("Profile %q uses the %s generator", profile.Name, profile.Strategy())
	if profile.Seed != 0 {
		result.info("Fixed seed %d: every round uses the same sequence of mazes", profile.Seed)
	}
	if profile.AutosaveInterval == 0 {
		result.info("Autosave disabled: only pauses and shutdown write the save file")
	}

	gen, err := maze.NewGenerator(profile.GeneratorOptions()...)
	if err != nil {
		result.fail("Cannot build generator: %v", err)
		return result
	}
	checkMaze(&result, gen.Generate(maze.Position{X: 1, Y: 1}), "Sample maze")
	return result
}

// validateSave decodes a save file and checks the session it holds.
func validateSave(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	f, err := os.Open(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}
	defer f.Close()

	state, err := session.Decode(f)
	if err != nil {
		var perr *session.ParseError
		if errors.As(err, &perr) {
			result.fail("Line %d (%s): %v", perr.Line, perr.Field, perr.Err)
		} else {
			result.fail("Invalid save: %v", err)
		}
		return result
	}

	result.info("Session in mode %s with countdown %d", state.Mode, state.Countdown)
	for i, name := range state.Names {
		if name != "" {
			result.info("Player %d: %s", i+1, name)
		}
	}
	if state.Maze.Width() != maze.Width || state.Maze.Height() != maze.Height {
		result.fail("Saved maze is %dx%d, the server plays %dx%d", state.Maze.Width(), state.Maze.Height(), maze.Width, maze.Height)
	}
	checkMaze(&result, state.Maze, "Saved maze")
	return result
}

// checkMaze reports whether a grid is a perfect maze with a reachable goal.
func checkMaze(result *ValidationResult, g *maze.Grid, label string) {
	if !g.BorderIntact() {
		result.fail("%s: outer border is not solid wall", label)
	}
	if !maze.IsPerfect(g) {
		result.fail("%s: not a perfect maze (loops or unreachable rooms)", label)
	}
	length, ok := maze.ShortestPath(g, g.Start(), g.Goal())
	if !ok {
		result.fail("%s: goal is unreachable from start", label)
		return
	}
	result.info("%s: %dx%d, solution %d moves, %d dead ends", label, g.Width(), g.Height(), length, maze.DeadEnds(g))
}

// validateFile picks the check by extension: .json files are profiles,
// anything else is a save file.
func validateFile(path string) ValidationResult {
	if strings.HasSuffix(path, ".json") {
		return validateProfile(path)
	}
	return validateSave(path)
}

// defaultTargets lists the repository's profiles and its save file, if any.
func defaultTargets() ([]string, error) {
	files, err := filepath.Glob(filepath.Join("..", "configs", "*.json"))
	if err != nil {
		return nil, err
	}
	save := filepath.Join("..", session.SaveFile)
	if _, err := os.Stat(save); err == nil {
		files = append(files, save)
	}
	return files, nil
}

// main validates each file named on the command line, printing a concise
// report and exiting with non-zero status if any are invalid.
func main() {
	files := os.Args[1:]
	if len(files) == 0 {
		var err error
		files, err = defaultTargets()
		if err != nil {
			fmt.Printf("Error finding files: %v\n", err)
			os.Exit(1)
		}
	}

	allValid := true
	for _, file := range files {
		result := validateFile(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All files are valid!")
	} else {
		fmt.Println("❌ Some files have errors")
		os.Exit(1)
	}
}
