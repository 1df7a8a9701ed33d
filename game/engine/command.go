package engine

import (
	"fmt"
	"strings"
)

// CommandKind enumerates the inputs the core understands.
type CommandKind int

const (
	CmdNewGame CommandKind = iota
	CmdContinueGame
	CmdResetTallies
	CmdTypeChar
	CmdBackspace
	CmdConfirmName
	CmdTogglePause
	CmdMoveAgent
	CmdRestart
	CmdTick
	CmdShutdown
)

var commandNames = map[CommandKind]string{
	CmdNewGame:      "new_game",
	CmdContinueGame: "continue_game",
	CmdResetTallies: "reset_tallies",
	CmdTypeChar:     "type_char",
	CmdBackspace:    "backspace",
	CmdConfirmName:  "confirm_name",
	CmdTogglePause:  "toggle_pause",
	CmdMoveAgent:    "move_agent",
	CmdRestart:      "restart",
	CmdTick:         "tick",
	CmdShutdown:     "shutdown",
}

func (k CommandKind) String() string {
	if name, ok := commandNames[k]; ok {
		return name
	}
	return fmt.Sprintf("command(%d)", int(k))
}

// ParseCommandKind maps a wire name such as "move_agent" to its kind.
func ParseCommandKind(s string) (CommandKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for kind, name := range commandNames {
		if name == s {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCommand, s)
}

// Command is a single input to the session. Char is used by CmdTypeChar;
// Agent and Direction by CmdMoveAgent.
type Command struct {
	Kind      CommandKind
	Char      rune
	Agent     AgentID
	Direction Direction
}

func (c Command) String() string {
	switch c.Kind {
	case CmdTypeChar:
		return fmt.Sprintf("%s(%q)", c.Kind, c.Char)
	case CmdMoveAgent:
		return fmt.Sprintf("%s(%s,%s)", c.Kind, c.Agent, c.Direction)
	default:
		return c.Kind.String()
	}
}

func NewGame() Command      { return Command{Kind: CmdNewGame} }
func ContinueGame() Command { return Command{Kind: CmdContinueGame} }
func ResetTallies() Command { return Command{Kind: CmdResetTallies} }
func Backspace() Command    { return Command{Kind: CmdBackspace} }
func ConfirmName() Command  { return Command{Kind: CmdConfirmName} }
func TogglePause() Command  { return Command{Kind: CmdTogglePause} }
func Restart() Command      { return Command{Kind: CmdRestart} }
func Tick() Command         { return Command{Kind: CmdTick} }
func Shutdown() Command     { return Command{Kind: CmdShutdown} }

func TypeChar(c rune) Command {
	return Command{Kind: CmdTypeChar, Char: c}
}

func MoveAgent(agent AgentID, dir Direction) Command {
	return Command{Kind: CmdMoveAgent, Agent: agent, Direction: dir}
}
