// Command maze-race starts the Maze Race server.
//
// It supports three commands:
//  1. "server" (default) – runs the session loop and the HTTP server exposing
//     the REST API, the WebSocket feed and an /mcp HTTP endpoint
//  2. "stdio-mcp" – runs an MCP stdio server and spins up an internal HTTP API
//     if none is available
//  3. "generate" – prints a freshly carved maze and exits
//
// Flags control host/port, config and data directories, the profile, debug
// logging and optional ngrok tunneling for external access during development.
// Every flag also reads an environment variable, and a .env file is loaded
// first when present.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/maze-race/api"
	"github.com/wricardo/maze-race/game/config"
	"github.com/wricardo/maze-race/game/engine"
	"github.com/wricardo/maze-race/game/maze"
	"github.com/wricardo/maze-race/game/service"
	"github.com/wricardo/maze-race/game/session"
	"github.com/wricardo/maze-race/game/stats"
	"github.com/wricardo/maze-race/transport/mcp"
	"github.com/wricardo/maze-race/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Maze Race Server"
)

// TickRate is the number of session ticks per second.
const TickRate = 60

// serverOptions selects where the process reads profiles and keeps its files.
type serverOptions struct {
	ConfigDir string
	DataDir   string
	Profile   string
}

// services is the wired session stack shared by every transport.
type services struct {
	profile *config.Profile
	configs *config.Manager
	store   stats.Store
	session *session.Manager
	game    service.GameService
	hub     *websocket.Hub
}

// Close releases the stats backend.
func (s *services) Close() error {
	return s.store.Close()
}

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// newApp builds the command tree. The root command runs the server.
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "maze-race",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "host",
				Value:   "localhost",
				Usage:   "HTTP server host",
				Sources: cli.EnvVars("HOST"),
			},
			&cli.IntFlag{
				Name:    "port",
				Value:   8080,
				Usage:   "HTTP server port",
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "Directory containing profiles",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Value:   ".",
				Usage:   "Directory for the save file, tallies and win history",
				Sources: cli.EnvVars("DATA_DIR"),
			},
			&cli.StringFlag{
				Name:    "profile",
				Usage:   "Profile to run (defaults to the config directory's default)",
				Sources: cli.EnvVars("PROFILE"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				Sources: cli.EnvVars("DEBUG"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				log.SetFlags(log.LstdFlags | log.Lshortfile)
			} else {
				log.SetFlags(log.LstdFlags)
			}
			return ctx, nil
		},
		Action: serverAction,
		Commands: []*cli.Command{
			{
				Name:    "server",
				Aliases: []string{"http"},
				Usage:   "Run the session loop with the REST API, WebSocket feed and MCP endpoint",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "ngrok",
						Usage:   "Enable ngrok tunnel",
						Sources: cli.EnvVars("NGROK_ENABLED"),
					},
					&cli.StringFlag{
						Name:    "ngrok-auth",
						Usage:   "Ngrok auth token",
						Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
					},
					&cli.StringFlag{
						Name:    "ngrok-domain",
						Usage:   "Custom ngrok domain (optional)",
						Sources: cli.EnvVars("NGROK_DOMAIN"),
					},
				},
				Action: serverAction,
			},
			{
				Name:    "stdio-mcp",
				Aliases: []string{"mcp-stdio", "mcp"},
				Usage:   "Run an MCP stdio server, starting an internal HTTP API if none is running",
				Action:  stdioMCPAction,
			},
			{
				Name:  "generate",
				Usage: "Print a freshly carved maze",
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:  "seed",
						Usage: "Random seed (0 picks one from the clock)",
					},
					&cli.StringFlag{
						Name:  "strategy",
						Value: string(maze.StrategyBacktracker),
						Usage: "Carving strategy: backtracker or jump-scan",
					},
				},
				Action: generateAction,
			},
		},
	}
}

func optionsFrom(cmd *cli.Command) serverOptions {
	return serverOptions{
		ConfigDir: cmd.String("config-dir"),
		DataDir:   cmd.String("data-dir"),
		Profile:   cmd.String("profile"),
	}
}

func serverAction(ctx context.Context, cmd *cli.Command) error {
	log.Printf("Starting %s v%s (mode: server)", AppName, Version)

	svcs, err := initializeServices(optionsFrom(cmd))
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer svcs.Close()

	addr := fmt.Sprintf("%s:%d", cmd.String("host"), int(cmd.Int("port")))
	return runHTTPServer(ctx, svcs, addr, ngrokOptions{
		Enabled:   cmd.Bool("ngrok"),
		AuthToken: cmd.String("ngrok-auth"),
		Domain:    cmd.String("ngrok-domain"),
	})
}

func stdioMCPAction(ctx context.Context, cmd *cli.Command) error {
	externalURL := fmt.Sprintf("http://%s:%d", cmd.String("host"), int(cmd.Int("port")))
	return runStdioMCPWithInternalServer(ctx, optionsFrom(cmd), externalURL)
}

func generateAction(ctx context.Context, cmd *cli.Command) error {
	strategy, err := maze.ParseStrategy(cmd.String("strategy"))
	if err != nil {
		return err
	}
	opts := []maze.Option{maze.WithStrategy(strategy)}
	if seed := cmd.Int64("seed"); seed != 0 {
		opts = append(opts, maze.WithSeed(seed))
	}

	gen, err := maze.NewGenerator(opts...)
	if err != nil {
		return err
	}
	_, err = io.WriteString(cmd.Root().Writer, describeMaze(gen.Generate(maze.Position{X: 1, Y: 1})))
	return err
}

// describeMaze renders a grid followed by a one-line summary.
func describeMaze(g *maze.Grid) string {
	length, ok := maze.ShortestPath(g, g.Start(), g.Goal())
	summary := fmt.Sprintf("%dx%d path_cells=%d dead_ends=%d perfect=%t",
		g.Width(), g.Height(), maze.CountCells(g, maze.Path), maze.DeadEnds(g), maze.IsPerfect(g))
	if ok {
		summary += fmt.Sprintf(" solution=%d", length)
	}
	return g.String() + summary + "\n"
}

// initializeServices wires the config manager, stats backend, save file,
// engine, session manager, game service and WebSocket hub.
func initializeServices(opts serverOptions) (*services, error) {
	configManager, err := config.NewManager(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	profile := configManager.GetDefault()
	if opts.Profile != "" {
		profile, err = configManager.LoadConfig(opts.Profile)
		if err != nil {
			return nil, fmt.Errorf("failed to load profile: %w", err)
		}
	}
	log.Printf("Using profile %q (generator: %s, stats: %s)", profile.Name, profile.Strategy(), profile.StatsBackend)

	gen, err := maze.NewGenerator(profile.GeneratorOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maze generator: %w", err)
	}

	store, err := stats.Open(profile.StatsBackend, opts.DataDir, profile.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to open stats store: %w", err)
	}

	persistence, err := session.NewFilePersistence(opts.DataDir)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to create session persistence: %w", err)
	}

	sessionManager := session.NewManager(
		engine.NewEngine(gen),
		persistence,
		store,
		session.WithAutosaveInterval(time.Duration(profile.AutosaveInterval)),
	)
	if sessionManager.HasSave() {
		log.Printf("Found saved session at %s", persistence.Path())
	}

	hub := websocket.NewHub()

	return &services{
		profile: profile,
		configs: configManager,
		store:   store,
		session: sessionManager,
		game:    service.NewGameService(sessionManager, configManager, hub),
		hub:     hub,
	}, nil
}

// runTicker drives the session clock until ctx is done.
func runTicker(ctx context.Context, game service.GameService, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := game.Tick(ctx); err != nil {
				log.Printf("Warning: Tick failed: %v", err)
			}
		}
	}
}

// newHandler combines the REST API with the /mcp endpoint.
func newHandler(svcs *services, baseURL string) http.Handler {
	apiServer := api.NewServer(svcs.game, svcs.hub)
	mcpClient := mcp.NewClient(baseURL)

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)

	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})

	return mainRouter
}

type ngrokOptions struct {
	Enabled   bool
	AuthToken string
	Domain    string
}

// runHTTPServer runs the session loop and serves HTTP until SIGINT/SIGTERM,
// then saves the session and shuts the listeners down.
func runHTTPServer(parent context.Context, svcs *services, addr string, tunnel ngrokOptions) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	go svcs.hub.Run(ctx)

	handler := newHandler(svcs, fmt.Sprintf("http://%s", addr))
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()
		runTicker(ctx, svcs.game, time.Second/TickRate)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("HTTP server listening on %s", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	if tunnel.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrok(ctx, handler, tunnel)
		}()
	}

	var runErr error
	select {
	case sig := <-stop:
		log.Printf("Received signal: %v. Shutting down...", sig)
	case runErr = <-serveErr:
		log.Printf("HTTP server failed: %v", runErr)
	case <-parent.Done():
	}

	drain(httpServer, cancel, &wg, svcs.game)
	log.Println("Server stopped")
	return runErr
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// drain stops the HTTP server, then the ticker, tunnel and hub, and only then
// writes the final save so no command can land after it.
func drain(srv shutdowner, cancel context.CancelFunc, wg *sync.WaitGroup, game service.GameService) {
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	cancel()
	wg.Wait()

	if err := game.Shutdown(context.Background()); err != nil {
		log.Printf("Warning: Failed to save session on shutdown: %v", err)
	}
}

// runNgrok serves handler through an ngrok tunnel until ctx is done.
func runNgrok(ctx context.Context, handler http.Handler, opts ngrokOptions) {
	if opts.AuthToken == "" {
		log.Println("WARNING: Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	log.Println("Starting ngrok tunnel...")

	var endpoint ngrokConfig.Tunnel
	if opts.Domain != "" {
		endpoint = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(opts.Domain))
		log.Printf("Using custom ngrok domain: %s", opts.Domain)
	} else {
		endpoint = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, endpoint, ngrok.WithAuthtoken(opts.AuthToken))
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	ngrokURL := tun.URL()
	log.Printf("Ngrok tunnel established: %s", ngrokURL)
	log.Printf("  REST API (ngrok): %s/api", ngrokURL)
	log.Printf("  WebSocket (ngrok): %s/ws", ngrokURL)
	log.Printf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		log.Printf("Ngrok server error: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}

// externalServerRunning reports whether a Maze Race API answers at baseURL.
func externalServerRunning(baseURL string) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/api/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// runStdioMCPWithInternalServer runs an MCP stdio server. It reuses an
// external API at externalURL when one answers; otherwise it runs the session
// itself behind an internal HTTP API on a random loopback port.
func runStdioMCPWithInternalServer(ctx context.Context, opts serverOptions, externalURL string) error {
	baseURL := externalURL

	log.Printf("Checking for external API server at %s...", externalURL)
	if externalServerRunning(externalURL) {
		log.Printf("External API server found at %s, using it for MCP", externalURL)
	} else {
		log.Printf("No external API server found, starting internal HTTP server")

		svcs, err := initializeServices(opts)
		if err != nil {
			return fmt.Errorf("failed to initialize services: %w", err)
		}
		defer svcs.Close()

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		internalAddr := listener.Addr().String()
		log.Printf("Starting internal HTTP server on %s for MCP stdio", internalAddr)

		innerCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		var wg sync.WaitGroup
		go svcs.hub.Run(innerCtx)
		wg.Add(1)
		go func() {
			defer wg.Done()
			runTicker(innerCtx, svcs.game, time.Second/TickRate)
		}()

		httpServer := &http.Server{Handler: api.NewServer(svcs.game, svcs.hub)}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				log.Printf("Internal HTTP server error: %v", err)
			}
		}()
		defer drain(httpServer, cancel, &wg, svcs.game)

		baseURL = fmt.Sprintf("http://%s", internalAddr)
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Printf("MCP stdio server ready (API at %s)", baseURL)

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}
