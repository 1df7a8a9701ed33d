// Package websocket provides the live state feed for Maze Race renderers.
//
// A central Hub owns every connection. The service layer calls Broadcast with
// two kinds of events:
//   - state_update: the full observable session after any change
//   - round_finished: the one-tick outcome event with its round ID
//
// Messages are JSON objects {"event": ..., "data": ...}. A new connection
// first receives the current state as a state_update. Clients never send
// commands over the socket; those go through the REST API.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	svc := service.NewGameService(mgr, configs, hub)
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		state, _ := svc.GetState(r.Context())
//		hub.ServeWS(w, r, state)
//	})
package websocket
