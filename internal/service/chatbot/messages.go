package chatbot

import (
	"fmt"

	"github.com/sandevgo/aline/internal/core"
	"github.com/sandevgo/aline/internal/service/personality"
)

const (
	TeachPrompt     = "Você pode me ensinar a resposta ideal?"
	TeachThanks     = "Obrigada! Aprendi uma nova resposta."
	TeachFailed     = "Erro ao salvar a nova resposta. Tente novamente."
	NothingPending  = "Não há pergunta pendente para ensinar. Envie uma nova pergunta primeiro."
	SkipDone        = "Tudo bem, podemos deixar para depois."
	NothingToSkip   = "Não há nada para pular no momento."
	ResetDone       = "Conversa reiniciada. Pode começar de novo!"
	defaultRejected = "Desculpe, não consegui entender sua mensagem. Pode reformular?"
)

var rejected = map[string]string{
	personality.Formal:      "Desculpe, não consegui processar sua mensagem. Poderia reformulá-la?",
	personality.Engracada:   "Opa, essa mensagem deu um nó nos meus circuitos! Tenta escrever de outro jeito?",
	personality.Desafiadora: "Mensagem inválida. Escreva uma pergunta clara e tente novamente.",
	personality.Empatica:    "Não consegui entender sua mensagem, mas tudo bem! Pode tentar escrever de novo?",
}

// RejectedMessage is the polite answer to input that failed validation.
func RejectedMessage(key string) string {
	if msg, ok := rejected[key]; ok {
		return msg
	}
	return defaultRejected
}

// Welcome greets a new conversation.
func Welcome() string {
	return fmt.Sprintf("Olá! Eu sou a %s. Escolha uma personalidade e escreva sua pergunta de matemática.", core.BotName)
}
