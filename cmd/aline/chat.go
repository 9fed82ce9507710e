package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/aline/internal/service/chatbot"
	"github.com/sandevgo/aline/internal/service/command"
	"github.com/sandevgo/aline/internal/service/personality"
	"github.com/sandevgo/aline/pkg/conv"
	"github.com/spf13/cobra"
)

var personalityFlag string

// withApp runs fn against a freshly wired app and releases it afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx, cfg, flushLog := bootstrap(cmd.Context())
	defer flushLog()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	return fn(ctx, a)
}

var askCmd = &cobra.Command{
	Use:          "ask <pergunta>",
	Short:        "Ask a single question",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			p := a.cfg.GetDefaultPersonality()
			if personalityFlag != "" {
				key, ok := personality.Canonicalize(personalityFlag)
				if !ok {
					return fmt.Errorf("personalidade desconhecida: %s", personalityFlag)
				}
				p = key
			}

			reply := a.bot.Process(ctx, strings.Join(args, " "), p)
			fmt.Fprintln(cmd.OutOrStdout(), reply.Text())
			return nil
		})
	},
}

var teachCmd = &cobra.Command{
	Use:          "teach <pergunta> <resposta>",
	Short:        "Teach the answer to a question",
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			if !a.bot.Teach(ctx, args[0], args[1]) {
				return fmt.Errorf("não foi possível ensinar: pergunta ou resposta inválida")
			}
			fmt.Fprintln(cmd.OutOrStdout(), chatbot.TeachThanks)
			return nil
		})
	},
}

var statsCmd = &cobra.Command{
	Use:          "stats",
	Short:        "Show usage statistics",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			md := command.FormatStats(command.NewResponseFormatter(), a.bot.Stats(ctx))
			fmt.Fprintln(cmd.OutOrStdout(), conv.MarkdownToText([]byte(md)))
			return nil
		})
	},
}

var historyCmd = &cobra.Command{
	Use:          "history",
	Short:        "Show the latest interactions",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			md := command.FormatHistory(a.bot.History(ctx, a.cfg.GetHistorySize()))
			fmt.Fprintln(cmd.OutOrStdout(), conv.MarkdownToText([]byte(md)))
			return nil
		})
	},
}

func init() {
	askCmd.Flags().StringVarP(&personalityFlag, "personality", "p", "", "formal, engracada, desafiadora or empatica")
	rootCmd.AddCommand(askCmd, teachCmd, statsCmd, historyCmd)
}
