// Command racer drives one agent of a running Maze Race server through the
// REST API. It waits for the race to start, plans a shortest route from the
// agent's cell to the goal and walks it one move at a time, replanning after
// any move the server refuses (a pause, or the other player finishing first).
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/maze-race/game/engine"
	"github.com/wricardo/maze-race/game/service"
)

var (
	ErrRoundOver  = errors.New("round finished before the agent reached the goal")
	ErrNoRoute    = errors.New("no route to the goal")
	ErrAgentGone  = errors.New("agent missing from state")
	errNotPlaying = errors.New("not playing")
)

// Options tune a single race.
type Options struct {
	Agent   string
	Delay   time.Duration
	Poll    time.Duration
	Verbose bool
}

// Result summarizes a finished race.
type Result struct {
	Moves   int
	Outcome *service.OutcomeEvent
}

func main() {
	cmd := &cli.Command{
		Name:  "racer",
		Usage: "Drive one agent to the goal over the REST API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "url",
				Value:   "http://localhost:8080",
				Usage:   "Game server URL",
				Sources: cli.EnvVars("MAZE_RACE_URL"),
			},
			&cli.StringFlag{
				Name:  "agent",
				Value: "agent2",
				Usage: "Agent to drive (agent1 or agent2)",
			},
			&cli.DurationFlag{
				Name:  "delay",
				Value: 150 * time.Millisecond,
				Usage: "Pause between moves",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: 5 * time.Minute,
				Usage: "Give up after this long",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log every move",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			agent, err := engine.ParseAgent(cmd.String("agent"))
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
			defer cancel()

			log.Printf("Connecting to game server at %s", cmd.String("url"))
			result, err := Race(ctx, NewClient(cmd.String("url")), Options{
				Agent:   agent.String(),
				Delay:   cmd.Duration("delay"),
				Poll:    250 * time.Millisecond,
				Verbose: cmd.Bool("verbose"),
			})
			if err != nil {
				return err
			}

			log.Printf("🏁 %s reached the goal in %d moves", agent, result.Moves)
			if result.Outcome != nil {
				fmt.Fprintf(cmd.Root().Writer, "%s\n", result.Outcome.Label)
			}
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// Race walks opts.Agent to the goal, waiting out countdowns and pauses.
func Race(ctx context.Context, c *Client, opts Options) (*Result, error) {
	result := &Result{}
	for {
		state, err := c.State(ctx)
		if err != nil {
			return result, err
		}

		agent, err := findAgent(state, opts.Agent)
		if err != nil {
			return result, err
		}
		if agent.Reached {
			return result, nil
		}

		switch state.Mode {
		case "playing":
		case "finished":
			return result, ErrRoundOver
		default:
			if opts.Verbose {
				log.Printf("Waiting in mode %s", state.Mode)
			}
			if err := sleep(ctx, opts.Poll); err != nil {
				return result, err
			}
			continue
		}

		err = walk(ctx, c, opts, agent, result)
		switch {
		case err == nil:
			return result, nil
		case errors.Is(err, errNotPlaying):
			continue
		default:
			return result, err
		}
	}
}

// walk plans a route from the agent's cell and follows it until the goal,
// a refused move (errNotPlaying) or an error.
func walk(ctx context.Context, c *Client, opts Options, agent *service.AgentView, result *Result) error {
	view, err := c.Maze(ctx)
	if err != nil {
		return err
	}
	grid, err := gridFromView(view)
	if err != nil {
		return fmt.Errorf("decode maze: %w", err)
	}

	route := Route(grid, agent.Position, view.Goal)
	if route == nil {
		return fmt.Errorf("%w from (%d,%d)", ErrNoRoute, agent.Position.X, agent.Position.Y)
	}
	if opts.Verbose {
		log.Printf("Route from (%d,%d): %d moves", agent.Position.X, agent.Position.Y, len(route))
	}

	for _, dir := range route {
		res, err := c.Move(ctx, opts.Agent, dir)
		if err != nil {
			return err
		}
		if !res.Applied {
			return errNotPlaying
		}
		result.Moves++
		if res.Outcome != nil {
			result.Outcome = res.Outcome
		}

		moved, err := findAgent(res.State, opts.Agent)
		if err != nil {
			return err
		}
		if opts.Verbose {
			log.Printf("%s %s -> (%d,%d)", opts.Agent, dir, moved.Position.X, moved.Position.Y)
		}
		if moved.Reached {
			return nil
		}

		if err := sleep(ctx, opts.Delay); err != nil {
			return err
		}
	}
	return nil
}

func findAgent(state *service.StateView, id string) (*service.AgentView, error) {
	if state == nil {
		return nil, ErrAgentGone
	}
	for i := range state.Agents {
		if state.Agents[i].ID == id {
			return &state.Agents[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrAgentGone, id)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
