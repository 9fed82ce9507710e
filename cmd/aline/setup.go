package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/aline/internal/config"
	"github.com/sandevgo/aline/internal/core"
	"github.com/sandevgo/aline/internal/service/chatbot"
	"github.com/sandevgo/aline/internal/service/command"
	"github.com/sandevgo/aline/internal/service/matcher"
	"github.com/sandevgo/aline/internal/service/report"
	"github.com/sandevgo/aline/internal/service/stats"
	"github.com/sandevgo/aline/internal/service/suggest"
	"github.com/sandevgo/aline/internal/storage/intentbank"
	"github.com/sandevgo/aline/internal/storage/jsonfile"
	"github.com/sandevgo/aline/internal/storage/sqlite"
	"github.com/sandevgo/aline/internal/transport/cli"
	"github.com/sandevgo/aline/internal/transport/dialog"
	"github.com/sandevgo/aline/internal/transport/telegram"
	"github.com/sandevgo/aline/pkg/log"
	"github.com/sandevgo/aline/pkg/srv"
)

type repositories struct {
	taught  core.TaughtRepository
	history core.HistoryRepository
	stats   core.StatsRepository
	close   func() error
}

// app is the wired chatbot shared by every subcommand.
type app struct {
	cfg     *config.AppConfig
	bank    *intentbank.File
	matcher *matcher.Matcher
	bot     *chatbot.Chatbot
	conv    *chatbot.Conversation
	router  *command.Router
	handler *dialog.Handler
	close   func() error
}

// bootstrap loads .env and the app config; the returned context carries the
// logger configured from it.
func bootstrap(ctx context.Context) (context.Context, *config.AppConfig, func()) {
	if err := initEnv(config.GetRuntimePath()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}

	cfg, err := config.ParseAppConfig()
	if err != nil {
		ctx, flush := setupLogger(ctx, "")
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
		return ctx, nil, flush
	}

	ctx, flush := setupLogger(ctx, cfg.GetLogPath())
	return ctx, cfg, flush
}

func newApp(ctx context.Context, cfg *config.AppConfig) (*app, error) {
	repos, err := initStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	taught, err := repos.taught.Load(ctx)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to load taught answers, starting empty")
	}

	bank := intentbank.NewFile(cfg.GetCoreBankPath())
	m := matcher.New(bank.Load(ctx), taught)
	agg := stats.NewAggregator(repos.stats, cfg.GetSessionTimeout())

	bot := chatbot.New(m, repos.taught, repos.history, agg)
	conv := chatbot.NewConversation(bot, cfg.GetDefaultPersonality())
	router := command.NewRouter(cfg, conv, suggest.New(repos.history, m))

	return &app{
		cfg:     cfg,
		bank:    bank,
		matcher: m,
		bot:     bot,
		conv:    conv,
		router:  router,
		handler: dialog.NewHandler(conv, router),
		close:   repos.close,
	}, nil
}

func initStorage(ctx context.Context, cfg *config.AppConfig) (*repositories, error) {
	if err := os.MkdirAll(cfg.GetRuntimePath(), 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	switch cfg.GetStorageBackend() {
	case config.StorageSQLite:
		db, err := sqlite.NewDB(ctx, cfg.GetDatabasePath())
		if err != nil {
			return nil, err
		}
		return sqliteRepositories(db, cfg.GetHistorySize()), nil
	default:
		return &repositories{
			taught:  jsonfile.NewTaughtStore(cfg.GetTaughtPath()),
			history: jsonfile.NewHistoryStore(cfg.GetHistoryPath(), cfg.GetHistorySize()),
			stats:   jsonfile.NewStatsStore(cfg.GetStatsPath()),
			close:   func() error { return nil },
		}, nil
	}
}

func sqliteRepositories(db *sql.DB, historySize int) *repositories {
	return &repositories{
		taught:  sqlite.NewTaughtRepo(db),
		history: sqlite.NewHistoryRepo(db, historySize),
		stats:   sqlite.NewStatsRepo(db),
		close:   db.Close,
	}
}

// NewServices wires the long-running services for `aline start`. stop ends
// the process, e.g. when the terminal chat is closed.
func NewServices(ctx context.Context, cfg *config.AppConfig, stop context.CancelFunc) []srv.Service {
	logger := log.FromCtx(ctx)

	a, err := newApp(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	services := []srv.Service{srv.NewCleanup(a.close)}

	if cfg.IsWatchCore() {
		services = append(services, intentbank.NewWatcher(a.bank, a.matcher.RefreshIntents))
	}

	if spec := cfg.GetStatsReportCron(); spec != "" {
		services = append(services, report.NewScheduler(spec, a.bot))
	}

	transports, err := initTransports(ctx, cfg, a, stop)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize transports")
	}
	return append(services, transports...)
}

func initTransports(ctx context.Context, cfg *config.AppConfig, a *app, stop context.CancelFunc) ([]srv.Service, error) {
	var services []srv.Service

	if cfg.IsTelegramSelected() {
		bot, err := telegram.NewBot(ctx, config.NewTelegramConfig(ctx), a.handler, a.router.ListCommands())
		if err != nil {
			return nil, err
		}
		services = append(services, bot)
	}

	if cfg.IsCLISelected() {
		rl, err := cli.NewReadLine(a.handler, cfg.GetRuntimePath())
		if err != nil {
			return nil, err
		}
		services = append(services, srv.NewFunc(func(ctx context.Context) error {
			defer stop()
			return rl.Start(ctx)
		}, func() error {
			return rl.Shutdown(context.Background())
		}))
	}

	if len(services) == 0 {
		return nil, fmt.Errorf("no transport enabled: set ALINE_ENABLE_CLI or ALINE_ENABLE_TELEGRAM")
	}
	return services, nil
}

func initEnv(runtimePath string) error {
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(envFile)
}
