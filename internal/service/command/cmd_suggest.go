package command

import (
	"context"

	"github.com/sandevgo/aline/internal/service/suggest"
)

type SuggestCommand struct {
	suggester *suggest.Suggester
	formatter *ResponseFormatter
}

func NewSuggestCommand(s *suggest.Suggester) *SuggestCommand {
	return &SuggestCommand{
		suggester: s,
		formatter: NewResponseFormatter(),
	}
}

func (c *SuggestCommand) Name() string { return "sugestoes" }

func (c *SuggestCommand) Description() string { return "Sugere perguntas para fazer" }

func (c *SuggestCommand) Execute(ctx context.Context, _ string, _ []string) (string, error) {
	items := c.suggester.Combined(ctx, 3, 2, 3)
	if len(items) == 0 {
		return c.formatter.Notice("Não tenho sugestões no momento."), nil
	}
	return c.formatter.Combine(
		c.formatter.Info("Que tal perguntar"),
		c.formatter.List(items),
	), nil
}
