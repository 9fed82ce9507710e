package core

import "context"

// CmdRouter dispatches slash commands. Execute reports false when input is
// not a command.
type CmdRouter interface {
	Execute(ctx context.Context, sessionID, input string) (string, bool)
	ListCommands() []Command
}

// Command is one slash command. Its reply is Markdown.
type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, sessionID string, args []string) (string, error)
}

// RawArgsCommand is implemented by commands that take the rest of the line
// as a single argument, keeping its spacing.
type RawArgsCommand interface {
	Command
	RawArgs() bool
}
