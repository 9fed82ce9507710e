package command

import (
	"context"

	"github.com/sandevgo/aline/internal/service/chatbot"
)

// TeachCommand teaches the answer to the question that last fell back.
type TeachCommand struct {
	conv      *chatbot.Conversation
	formatter *ResponseFormatter
}

func NewTeachCommand(conv *chatbot.Conversation) *TeachCommand {
	return &TeachCommand{
		conv:      conv,
		formatter: NewResponseFormatter(),
	}
}

func (c *TeachCommand) Name() string { return "ensinar" }

func (c *TeachCommand) Description() string {
	return "Ensina a resposta da última pergunta que eu não soube"
}

func (c *TeachCommand) RawArgs() bool { return true }

func (c *TeachCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	if len(args) == 0 {
		pending, ok := c.conv.Pending(sessionID)
		if !ok {
			return chatbot.NothingPending, nil
		}
		return c.formatter.Combine(
			c.formatter.Label("Pergunta pendente", pending),
			c.formatter.Usage("/ensinar <resposta>"),
			c.formatter.Examples([]string{"/ensinar A área do círculo é π·r²"}),
		), nil
	}

	msg, ok := c.conv.TeachPending(ctx, sessionID, args[0])
	if ok {
		return c.formatter.Success(msg), nil
	}
	return msg, nil
}

// SkipCommand drops the pending question.
type SkipCommand struct {
	conv *chatbot.Conversation
}

func NewSkipCommand(conv *chatbot.Conversation) *SkipCommand {
	return &SkipCommand{conv: conv}
}

func (c *SkipCommand) Name() string { return "pular" }

func (c *SkipCommand) Description() string { return "Deixa o ensino para depois" }

func (c *SkipCommand) Execute(_ context.Context, sessionID string, _ []string) (string, error) {
	return c.conv.SkipPending(sessionID), nil
}
