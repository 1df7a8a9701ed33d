package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/wricardo/maze-race/game/config"
	"github.com/wricardo/maze-race/game/engine"
	"github.com/wricardo/maze-race/game/maze"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrOutOfBounds    = errors.New("position outside the maze")
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	session SessionController
	configs ConfigManager
	events  Broadcaster

	// outcome is the round-finished event raised by the latest tick
	outcome     *OutcomeEvent
	fingerprint string
	mu          sync.Mutex
}

// NewGameService creates a new game service instance. events may be nil.
func NewGameService(session SessionController, configs ConfigManager, events Broadcaster) GameService {
	return &gameServiceImpl{
		session:     session,
		configs:     configs,
		events:      events,
		fingerprint: fingerprint(session.Snapshot()),
	}
}

// ParseCommand converts a wire request into engine commands. type_char with
// text expands to one command per character.
func ParseCommand(req CommandRequest) ([]engine.Command, error) {
	kind, err := engine.ParseCommandKind(req.Command)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	switch kind {
	case engine.CmdTypeChar:
		text := req.Text
		if req.Char != "" {
			if utf8.RuneCountInString(req.Char) != 1 {
				return nil, fmt.Errorf("%w: char must be a single character", ErrInvalidRequest)
			}
			text = req.Char + text
		}
		if text == "" {
			return nil, fmt.Errorf("%w: type_char needs char or text", ErrInvalidRequest)
		}
		cmds := make([]engine.Command, 0, len(text))
		for _, r := range text {
			cmds = append(cmds, engine.TypeChar(r))
		}
		return cmds, nil

	case engine.CmdMoveAgent:
		agent, err := engine.ParseAgent(req.Agent)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		dir, err := engine.ParseDirection(req.Direction)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		return []engine.Command{engine.MoveAgent(agent, dir)}, nil

	case engine.CmdTick, engine.CmdShutdown:
		return nil, fmt.Errorf("%w: %s is driven by the server", ErrInvalidRequest, kind)

	default:
		return []engine.Command{{Kind: kind}}, nil
	}
}

// Execute parses and applies a wire command
func (s *gameServiceImpl) Execute(ctx context.Context, req CommandRequest) (*CommandResult, error) {
	cmds, err := ParseCommand(req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result := &CommandResult{Command: strings.ToLower(strings.TrimSpace(req.Command))}
	for _, cmd := range cmds {
		applied, outcome, err := s.apply(cmd)
		if err != nil {
			return nil, err
		}
		result.Applied = result.Applied || applied
		if outcome != nil {
			result.Outcome = outcome
		}
	}
	if !result.Applied {
		result.Message = fmt.Sprintf("%s ignored in mode %s", result.Command, s.session.Snapshot().Mode)
	}
	result.State = s.stateView()
	return result, nil
}

// Apply runs an already-parsed command
func (s *gameServiceImpl) Apply(ctx context.Context, cmd engine.Command) (*CommandResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	applied, outcome, err := s.apply(cmd)
	if err != nil {
		return nil, err
	}
	return &CommandResult{
		Command: cmd.Kind.String(),
		Applied: applied,
		State:   s.stateView(),
		Outcome: outcome,
	}, nil
}

// Tick advances the session by one frame and returns the round outcome, if any.
func (s *gameServiceImpl) Tick(ctx context.Context) (*OutcomeEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, outcome, err := s.apply(engine.Tick())
	return outcome, err
}

// Shutdown flushes the session on the way out
func (s *gameServiceImpl) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, _, err := s.apply(engine.Shutdown())
	return err
}

// apply must be called with s.mu held.
func (s *gameServiceImpl) apply(cmd engine.Command) (bool, *OutcomeEvent, error) {
	res, err := s.session.Execute(cmd)
	if err != nil {
		return false, nil, err
	}

	if cmd.Kind == engine.CmdTick {
		s.outcome = nil
	}
	if res.Outcome != nil {
		s.outcome = s.outcomeEvent(*res.Outcome)
		log.Printf("Round %s finished: %s", s.outcome.RoundID, s.outcome.Label)
		s.broadcast(EventRoundFinished, s.outcome)
	}

	if res.Applied {
		snap := s.session.Snapshot()
		fp := fingerprint(snap)
		if cmd.Kind != engine.CmdTick || fp != s.fingerprint {
			s.broadcast(EventStateUpdate, s.viewOf(snap))
		}
		s.fingerprint = fp
	}

	return res.Applied, s.currentOutcome(res), nil
}

func (s *gameServiceImpl) currentOutcome(res engine.Result) *OutcomeEvent {
	if res.Outcome == nil {
		return nil
	}
	return s.outcome
}

func (s *gameServiceImpl) outcomeEvent(o engine.Outcome) *OutcomeEvent {
	ev := &OutcomeEvent{
		RoundID: uuid.NewString(),
		Label:   o.Label,
		Tie:     o.Tie,
		At:      time.Now(),
	}
	if !o.Tie {
		ev.Winner = o.Winner.String()
	}
	if rec := s.session.LastRecord(); rec != nil {
		ev.At = rec.At
	}
	if tally, err := s.session.Tally(); err == nil {
		ev.Tally = tally
	}
	return ev
}

func fingerprint(st *engine.SessionState) string {
	return fmt.Sprintf("%d|%v|%q|%d", st.Mode, st.Agents, st.Names, st.Countdown)
}

func (s *gameServiceImpl) broadcast(event string, data interface{}) {
	if s.events != nil {
		s.events.Broadcast(event, data)
	}
}

// GetState returns the observable session
func (s *gameServiceImpl) GetState(ctx context.Context) (*StateView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateView(), nil
}

func (s *gameServiceImpl) stateView() *StateView {
	return s.viewOf(s.session.Snapshot())
}

func (s *gameServiceImpl) viewOf(st *engine.SessionState) *StateView {
	view := &StateView{
		Mode:      st.Mode.String(),
		ModeTag:   int(st.Mode),
		Countdown: st.Countdown,
		Start:     st.Start,
		Goal:      st.Goal,
		HasSave:   s.session.HasSave(),
		Outcome:   s.outcome,
	}

	for _, id := range []engine.AgentID{engine.Agent1, engine.Agent2} {
		a := st.Agent(id)
		av := AgentView{
			ID:       id.String(),
			Name:     st.Name(id),
			Position: a.Pos,
			Reached:  a.Reached,
		}
		if st.Mode == engine.ModePlaying {
			for _, d := range st.PossibleMoves(id) {
				av.PossibleMoves = append(av.PossibleMoves, d.String())
			}
		}
		view.Agents = append(view.Agents, av)
	}

	tally, err := s.session.Tally()
	if err != nil {
		log.Printf("Warning: Failed to read win tally: %v", err)
	}
	view.Tally = tally
	return view
}

// GetMaze returns the current maze layout
func (s *gameServiceImpl) GetMaze(ctx context.Context) (*MazeView, error) {
	s.mu.Lock()
	snap := s.session.Snapshot()
	s.mu.Unlock()

	view := &MazeView{
		Width:  snap.Maze.Width(),
		Height: snap.Maze.Height(),
		Text:   snap.Maze.String(),
		Start:  snap.Start,
		Goal:   snap.Goal,
	}
	for _, row := range snap.Maze.Rows() {
		var b strings.Builder
		for _, c := range row {
			b.WriteByte('0' + byte(c))
		}
		view.Rows = append(view.Rows, b.String())
	}
	return view, nil
}

// DescribeCell reports what occupies a maze cell
func (s *gameServiceImpl) DescribeCell(ctx context.Context, x, y int) (*CellView, error) {
	s.mu.Lock()
	snap := s.session.Snapshot()
	s.mu.Unlock()

	p := maze.Position{X: x, Y: y}
	if !snap.Maze.InBounds(p) {
		return nil, fmt.Errorf("%w: (%d,%d) in a %dx%d maze", ErrOutOfBounds, x, y, snap.Maze.Width(), snap.Maze.Height())
	}

	view := &CellView{
		X:        x,
		Y:        y,
		Cell:     "path",
		Interior: snap.Maze.IsInterior(p),
		Walkable: snap.CanMoveTo(p),
		Start:    p == snap.Start,
		Goal:     p == snap.Goal,
	}
	if snap.Maze.At(p) == maze.Wall {
		view.Cell = "wall"
	}
	for _, id := range []engine.AgentID{engine.Agent1, engine.Agent2} {
		if snap.Agent(id).Pos == p {
			view.Agents = append(view.Agents, id.String())
		}
	}
	return view, nil
}

// GetStats returns the tally and win history
func (s *gameServiceImpl) GetStats(ctx context.Context) (*StatsView, error) {
	tally, err := s.session.Tally()
	if err != nil {
		return nil, fmt.Errorf("failed to read tally: %w", err)
	}
	records, err := s.session.History()
	if err != nil {
		return nil, fmt.Errorf("failed to read win history: %w", err)
	}

	view := &StatsView{Tally: tally, History: make([]string, 0, len(records))}
	for _, r := range records {
		view.History = append(view.History, r.String())
	}
	return view, nil
}

// ListConfigs returns the available profiles
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*config.ProfileInfo, error) {
	if s.configs == nil {
		return nil, nil
	}
	return s.configs.ListConfigs()
}
