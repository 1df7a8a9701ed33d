// Package config provides profile management for Maze Race.
//
// The config package handles:
//   - Loading profiles from JSON files in the configs directory
//   - Profile validation
//   - Default profile selection and profile listing
//
// Profile Format:
//
//	{
//	  "name": "Classic",
//	  "description": "Depth-first backtracker, file stats",
//	  "generator": "backtracker",
//	  "seed": 0,
//	  "autosave_interval": "1s",
//	  "history_limit": 3,
//	  "stats_backend": "file"
//	}
//
// generator is "backtracker" or "jump-scan". A zero seed seeds from the clock.
// stats_backend is "file" or "sqlite".
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//	profile := manager.GetDefault()
//	gen, err := maze.NewGenerator(profile.GeneratorOptions()...)
package config
