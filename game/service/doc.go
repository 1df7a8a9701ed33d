// Package service provides the business logic layer for Maze Race.
//
// The service package implements:
//   - Parsing wire commands into engine commands
//   - Serialized command execution against the session controller
//   - Observable views of the session, maze, cells and results
//   - Round-finished events tagged with a round ID
//
// Core Interfaces:
//
// GameService is the interface every transport (REST, WebSocket, MCP) talks
// to. SessionController is the control loop underneath it, implemented by
// session.Manager. Broadcaster receives state_update and round_finished
// events, implemented by the websocket hub.
//
// Usage:
//
//	svc := service.NewGameService(sessionMgr, configMgr, hub)
//
//	res, err := svc.Execute(ctx, service.CommandRequest{Command: "new_game"})
//	res, err = svc.Execute(ctx, service.CommandRequest{Command: "type_char", Text: "Ann"})
//	res, err = svc.Execute(ctx, service.CommandRequest{Command: "confirm_name"})
//
//	// driven by the server clock
//	outcome, err := svc.Tick(ctx)
package service
