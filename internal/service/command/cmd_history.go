package command

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sandevgo/aline/internal/core"
	"github.com/sandevgo/aline/internal/service/personality"
)

type HistorySource interface {
	History(ctx context.Context, n int) []core.HistoryEntry
}

type HistoryCommand struct {
	source    HistorySource
	size      int
	formatter *ResponseFormatter
}

func NewHistoryCommand(source HistorySource, size int) *HistoryCommand {
	return &HistoryCommand{
		source:    source,
		size:      size,
		formatter: NewResponseFormatter(),
	}
}

func (c *HistoryCommand) Name() string { return "historico" }

func (c *HistoryCommand) Description() string { return "Mostra as últimas interações" }

func (c *HistoryCommand) Execute(ctx context.Context, _ string, args []string) (string, error) {
	n := c.size
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v <= 0 {
			return "", fmt.Errorf("quantidade inválida: %s", args[0])
		}
		n = v
	}

	entries := c.source.History(ctx, n)
	if len(entries) == 0 {
		return c.formatter.Notice("Ainda não há histórico."), nil
	}

	return c.formatter.Combine(
		c.formatter.Info("Histórico"),
		FormatHistory(entries),
	), nil
}

// FormatHistory renders entries oldest first.
func FormatHistory(entries []core.HistoryEntry) string {
	var sb strings.Builder
	for _, e := range entries {
		ts := e.TimestampIn.Local().Format("2006-01-02 15:04")
		fmt.Fprintf(&sb, "`[%s]` **Você**: %s\n", ts, e.Question)
		fmt.Fprintf(&sb, "**%s (%s)**: %s\n\n", core.BotName, personality.DisplayName(e.Personality), e.Answer)
	}
	return sb.String()
}
