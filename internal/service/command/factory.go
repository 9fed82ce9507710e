package command

import (
	"github.com/sandevgo/aline/internal/core"
	"github.com/sandevgo/aline/internal/service/chatbot"
	"github.com/sandevgo/aline/internal/service/suggest"
)

// NewRouter builds the router with every chat command registered.
func NewRouter(
	cfg core.ChatConfig,
	conv *chatbot.Conversation,
	suggester *suggest.Suggester,
) *Router {
	bot := conv.Bot()

	router := New([]core.Command{
		NewTeachCommand(conv),
		NewSkipCommand(conv),
		NewResetCommand(conv),
		NewPersonalityCommand(conv),
		NewStatsCommand(bot),
		NewHistoryCommand(bot, cfg.GetHistorySize()),
		NewSuggestCommand(suggester),
	})

	help := NewHelpCommand(router)
	router.Register(help)
	router.Register(NewStartCommand(help))
	return router
}
