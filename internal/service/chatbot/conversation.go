package chatbot

import (
	"context"
	"sync"

	"github.com/sandevgo/aline/internal/service/personality"
)

type session struct {
	personality string
	pending     string
	awaiting    bool
}

// Conversation keeps, per chat session, the selected personality and the one
// question waiting to be taught after a fallback.
type Conversation struct {
	bot                *Chatbot
	defaultPersonality string

	mu       sync.Mutex
	sessions map[string]*session
}

func NewConversation(bot *Chatbot, defaultPersonality string) *Conversation {
	return &Conversation{
		bot:                bot,
		defaultPersonality: personality.OrDefault(defaultPersonality),
		sessions:           make(map[string]*session),
	}
}

func (c *Conversation) Bot() *Chatbot { return c.bot }

func (c *Conversation) session(id string) *session {
	s, ok := c.sessions[id]
	if !ok {
		s = &session{personality: c.defaultPersonality}
		c.sessions[id] = s
	}
	return s
}

// Ask processes text for the session. A fallback reply makes text the
// pending question; any other answered message clears it.
func (c *Conversation) Ask(ctx context.Context, sessionID, text string) Reply {
	c.mu.Lock()
	p := c.session(sessionID).personality
	c.mu.Unlock()

	reply := c.bot.Process(ctx, text, p)
	if reply.Rejected {
		return reply
	}

	c.mu.Lock()
	s := c.session(sessionID)
	s.awaiting = reply.IsFallback
	s.pending = ""
	if reply.IsFallback {
		s.pending = text
	}
	c.mu.Unlock()

	return reply
}

// TeachPending teaches answer for the pending question of the session and
// returns the message to show. The pending slot is cleared either way.
func (c *Conversation) TeachPending(ctx context.Context, sessionID, answer string) (string, bool) {
	c.mu.Lock()
	s := c.session(sessionID)
	question, awaiting := s.pending, s.awaiting
	s.pending, s.awaiting = "", false
	c.mu.Unlock()

	if !awaiting || question == "" {
		return NothingPending, false
	}
	if !c.bot.Teach(ctx, question, answer) {
		return TeachFailed, false
	}
	return TeachThanks, true
}

// SkipPending drops the pending question.
func (c *Conversation) SkipPending(sessionID string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.session(sessionID)
	if !s.awaiting {
		return NothingToSkip
	}
	s.pending, s.awaiting = "", false
	return SkipDone
}

// Pending returns the question waiting to be taught, if any.
func (c *Conversation) Pending(sessionID string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.session(sessionID)
	return s.pending, s.awaiting
}

// SetPersonality switches the session voice. Unknown names are refused.
func (c *Conversation) SetPersonality(sessionID, name string) (string, bool) {
	key, ok := personality.Canonicalize(name)
	if !ok {
		return "", false
	}

	c.mu.Lock()
	c.session(sessionID).personality = key
	c.mu.Unlock()
	return key, true
}

func (c *Conversation) Personality(sessionID string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session(sessionID).personality
}

// Reset forgets the session state.
func (c *Conversation) Reset(sessionID string) {
	c.mu.Lock()
	delete(c.sessions, sessionID)
	c.mu.Unlock()
}
