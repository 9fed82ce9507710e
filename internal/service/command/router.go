package command

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sandevgo/aline/internal/core"
	"github.com/sandevgo/aline/pkg/log"
)

type Router struct {
	commands  map[string]core.Command
	formatter *ResponseFormatter
}

func New(commands []core.Command) *Router {
	c := &Router{
		commands:  make(map[string]core.Command),
		formatter: NewResponseFormatter(),
	}

	for _, cmd := range commands {
		c.Register(cmd)
	}
	return c
}

func (c *Router) Register(cmd core.Command) {
	c.commands[cmd.Name()] = cmd
}

func (c *Router) Execute(ctx context.Context, sessionID, input string) (string, bool) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return "", false
	}

	head, rest, _ := strings.Cut(input, " ")
	name := strings.TrimPrefix(head, "/")
	// Telegram appends the bot username in groups: /ajuda@aline_bot
	name, _, _ = strings.Cut(name, "@")
	name = strings.ToLower(name)

	cmd, ok := c.commands[name]
	if !ok {
		return fmt.Sprintf("Comando desconhecido: /%s. Use /ajuda para ver os comandos.", name), true
	}

	args := strings.Fields(rest)
	if r, ok := cmd.(core.RawArgsCommand); ok && r.RawArgs() {
		args = nil
		if rest = strings.TrimSpace(rest); rest != "" {
			args = []string{rest}
		}
	}

	result, err := cmd.Execute(ctx, sessionID, args)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("command", name).Msg("command failed")
		return c.formatter.Error(name, err), true
	}
	return result, true
}

// ListCommands returns the registered commands sorted by name.
func (c *Router) ListCommands() []core.Command {
	res := make([]core.Command, 0, len(c.commands))
	for _, cmd := range c.commands {
		res = append(res, cmd)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name() < res[j].Name() })
	return res
}
