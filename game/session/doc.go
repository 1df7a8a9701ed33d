// Package session runs the Maze Race control loop on top of the engine.
//
// The session package implements:
//   - The single resumable save (savegame.txt) written via a temp file and rename
//   - The line-oriented save codec with strict parsing
//   - Continue, with fallback to a fresh game when the save is unreadable
//   - Periodic autosave outside the menu, and a final save on shutdown
//   - Recording of round outcomes into the stats store
//
// Core Types:
//
// Manager owns a GameEngine, a SessionPersistence and a stats.Store. All
// commands go through Manager.Execute, which serializes them and runs each to
// completion. FilePersistence is the file-backed SessionPersistence.
//
// Errors:
//
// Filesystem failures surface as *IOError and malformed content as
// *ParseError; both unwrap to their cause. Save failures inside Execute are
// logged and never interrupt play.
//
// Usage:
//
//	store, _ := stats.NewFileStore(dataDir, stats.DefaultHistoryLimit)
//	saves, _ := session.NewFilePersistence(dataDir)
//	gen, _ := maze.NewGenerator()
//	mgr := session.NewManager(engine.NewEngine(gen), saves, store)
//
//	mgr.Execute(engine.ContinueGame())
//	res, _ := mgr.Execute(engine.Tick())
package session
