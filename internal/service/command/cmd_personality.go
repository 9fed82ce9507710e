package command

import (
	"context"
	"fmt"

	"github.com/sandevgo/aline/internal/service/chatbot"
	"github.com/sandevgo/aline/internal/service/personality"
)

type PersonalityCommand struct {
	conv      *chatbot.Conversation
	formatter *ResponseFormatter
}

func NewPersonalityCommand(conv *chatbot.Conversation) *PersonalityCommand {
	return &PersonalityCommand{
		conv:      conv,
		formatter: NewResponseFormatter(),
	}
}

func (c *PersonalityCommand) Name() string { return "personalidade" }

func (c *PersonalityCommand) Description() string {
	return "Mostra ou troca a personalidade das respostas"
}

func (c *PersonalityCommand) Execute(_ context.Context, sessionID string, args []string) (string, error) {
	if len(args) == 0 {
		current := c.conv.Personality(sessionID)

		items := make([]string, 0, 4)
		for i, p := range personality.All() {
			mark := ""
			if p.Key == current {
				mark = " ✓"
			}
			items = append(items, fmt.Sprintf("%d. **%s**: %s%s", i+1, p.Name, p.Description, mark))
		}

		return c.formatter.Combine(
			c.formatter.Info("Personalidades"),
			c.formatter.List(items),
			c.formatter.Usage("/personalidade <nome ou número>"),
			c.formatter.Examples([]string{"/personalidade engraçada", "/personalidade 4"}),
		), nil
	}

	key, ok := c.conv.SetPersonality(sessionID, args[0])
	if !ok {
		return "", fmt.Errorf("personalidade desconhecida: %s", args[0])
	}
	return c.formatter.Success(fmt.Sprintf("Personalidade alterada para %s", personality.DisplayName(key))), nil
}
