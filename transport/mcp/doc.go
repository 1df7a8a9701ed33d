// Package mcp exposes a Maze Race server to AI agents over the Model Context
// Protocol.
//
// The Client is a thin proxy: every tool call becomes one or more requests to
// the REST API, so an agent drives the same single session a human renderer
// does.
//
// MCP Tools:
//   - game_state: Mode, agents, countdown and the maze with agent markers
//   - new_game, continue_game: Leave the menu
//   - enter_name: Type a racer name and optionally confirm it
//   - backspace: Delete the last typed character
//   - move: Move an agent one or more cells in a direction
//   - toggle_pause, restart, reset_tallies: Session control
//   - win_history: Tally and recent results
//   - describe_cell: Details about one maze cell
//   - list_configs: Profiles available to the server
//   - game_instructions: The rules
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
