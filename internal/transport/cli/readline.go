package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/sandevgo/aline/internal/core"
	"github.com/sandevgo/aline/internal/service/chatbot"
	"github.com/sandevgo/aline/internal/transport/dialog"
	"github.com/sandevgo/aline/pkg/conv"
	"github.com/sandevgo/aline/pkg/log"
)

const defaultSessionID = "cli-local"

var exitWords = map[string]bool{"sair": true, "exit": true, "quit": true}

type ReadLine struct {
	handler *dialog.Handler
	rl      *readline.Instance
}

func NewReadLine(handler *dialog.Handler, runtimePath string) (*ReadLine, error) {
	if err := os.MkdirAll(runtimePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "Você: ",
		HistoryFile:     filepath.Join(runtimePath, "input_history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "sair",
	})
	if err != nil {
		return nil, err
	}

	return &ReadLine{handler: handler, rl: rl}, nil
}

func (r *ReadLine) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Msg("cli chat started, type 'sair' to quit")

	out := r.rl.Stdout()
	fmt.Fprintf(out, "%s\n", chatbot.Welcome())

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if len(line) == 0 {
					return nil
				}
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if exitWords[strings.ToLower(line)] {
			return nil
		}
		if line == "" {
			continue
		}

		fmt.Fprintf(out, "%s\n", render(r.handler.Respond(ctx, defaultSessionID, line)))
	}
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}

func render(res dialog.Response) string {
	if res.Markdown {
		return conv.MarkdownToText([]byte(res.Text))
	}
	return core.BotName + ": " + res.Text
}
