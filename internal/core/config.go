package core

// ChatConfig holds the chat settings commands need.
type ChatConfig interface {
	GetDefaultPersonality() string
	GetHistorySize() int
}
