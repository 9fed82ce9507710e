// Package dialog turns one incoming chat line into the text to send back,
// shared by every front end.
package dialog

import (
	"context"
	"strings"

	"github.com/sandevgo/aline/internal/core"
	"github.com/sandevgo/aline/internal/service/chatbot"
)

// Response is what a transport shows for one line. Command output is
// Markdown; chat answers are plain text.
type Response struct {
	Text     string
	Markdown bool
	Reply    *chatbot.Reply
}

type Handler struct {
	conv   *chatbot.Conversation
	router core.CmdRouter
}

func NewHandler(conv *chatbot.Conversation, router core.CmdRouter) *Handler {
	return &Handler{conv: conv, router: router}
}

func (h *Handler) Respond(ctx context.Context, sessionID, text string) Response {
	if strings.HasPrefix(strings.TrimSpace(text), "/") {
		if out, ok := h.router.Execute(ctx, sessionID, text); ok {
			return Response{Text: out, Markdown: true}
		}
	}

	reply := h.conv.Ask(ctx, sessionID, text)
	return Response{Text: reply.Text(), Reply: &reply}
}
