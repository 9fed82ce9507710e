package command

import (
	"context"
	"fmt"

	"github.com/sandevgo/aline/internal/core"
	"github.com/sandevgo/aline/internal/service/chatbot"
)

type HelpCommand struct {
	router    core.CmdRouter
	formatter *ResponseFormatter
}

func NewHelpCommand(router core.CmdRouter) *HelpCommand {
	return &HelpCommand{
		router:    router,
		formatter: NewResponseFormatter(),
	}
}

func (c *HelpCommand) Name() string { return "ajuda" }

func (c *HelpCommand) Description() string { return "Lista os comandos" }

func (c *HelpCommand) Execute(_ context.Context, _ string, _ []string) (string, error) {
	items := make([]string, 0)
	for _, cmd := range c.router.ListCommands() {
		items = append(items, fmt.Sprintf("`/%s` %s", cmd.Name(), cmd.Description()))
	}
	return c.formatter.Combine(
		c.formatter.Info("Comandos"),
		c.formatter.List(items),
		c.formatter.Tip("quando eu não souber uma resposta, use /ensinar para me ensinar."),
	), nil
}

// StartCommand greets a new chat.
type StartCommand struct {
	help *HelpCommand
}

func NewStartCommand(help *HelpCommand) *StartCommand {
	return &StartCommand{help: help}
}

func (c *StartCommand) Name() string { return "start" }

func (c *StartCommand) Description() string { return "Começa a conversa" }

func (c *StartCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	help, err := c.help.Execute(ctx, sessionID, args)
	if err != nil {
		return "", err
	}
	return chatbot.Welcome() + "\n\n" + help, nil
}
