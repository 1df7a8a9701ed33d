// Package engine provides the core session logic for Maze Race.
//
// The engine package implements:
//   - The session state machine (menu, name entry, countdown, play, pause, finish)
//   - Agent movement and collision with maze walls and the outer border
//   - Goal judgement once per tick, including ties
//   - Commands and their parsing from wire names
//
// Core Types:
//
// SessionState is the aggregate root: mode, both agents, player names, the
// countdown and the maze. GameEngine owns exactly one SessionState and applies
// Commands to it. GoalJudge inspects the state after movement and produces an
// Outcome that ends the round.
//
// Usage:
//
//	gen, _ := maze.NewGenerator()
//	eng := engine.NewEngine(gen)
//
//	eng.Apply(engine.NewGame())
//	eng.Apply(engine.TypeChar('A'))
//	eng.Apply(engine.ConfirmName())
//	...
//	res := eng.Apply(engine.Tick())
//	if res.Outcome != nil {
//		fmt.Println("winner:", res.Outcome.Label)
//	}
//
// Commands that are meaningless in the current mode are ignored and report
// Result.Applied == false. Storage-backed commands (continue, tally reset,
// shutdown) are handled by the session package.
package engine
