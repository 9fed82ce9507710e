package command

import (
	"context"

	"github.com/sandevgo/aline/internal/service/chatbot"
)

// ResetCommand clears the chat: pending question and chosen personality.
type ResetCommand struct {
	conv *chatbot.Conversation
}

func NewResetCommand(conv *chatbot.Conversation) *ResetCommand {
	return &ResetCommand{conv: conv}
}

func (c *ResetCommand) Name() string { return "limpar" }

func (c *ResetCommand) Description() string { return "Reinicia a conversa" }

func (c *ResetCommand) Execute(_ context.Context, sessionID string, _ []string) (string, error) {
	c.conv.Reset(sessionID)
	return chatbot.ResetDone, nil
}
