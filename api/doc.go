// Package api provides the HTTP REST API for a Maze Race session.
//
// The process hosts exactly one session, so no endpoint takes a session ID.
//
// Endpoints:
//
// Session:
//   - GET  /api/state - Observable session (mode, agents, countdown, tally)
//   - POST /api/commands - Apply one command
//
// Maze:
//   - GET /api/maze - Current maze as rows of 0/1 plus a printable rendering
//   - GET /api/cells/{x}/{y} - Describe a single cell
//
// Results:
//   - GET /api/stats - Win tally and history
//   - GET /api/history?limit=N - Most recent history entries, newest first
//
// Other:
//   - GET /api/configs - Available profiles
//   - GET /api/health - Liveness check
//   - GET /ws - WebSocket feed of state_update and round_finished events
//
// Commands are JSON objects naming the command and its arguments:
//
//	{"command": "new_game"}
//	{"command": "type_char", "text": "Ann"}
//	{"command": "confirm_name"}
//	{"command": "move_agent", "agent": "agent1", "direction": "north"}
//	{"command": "toggle_pause"}
//
// Malformed commands answer 400. A well-formed command that the current mode
// ignores answers 200 with "applied": false. Tick and shutdown are driven by
// the server process and are refused over HTTP.
package api
