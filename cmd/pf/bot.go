package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/matsen/physform/internal/bot"
	"github.com/matsen/physform/internal/config"
	"github.com/matsen/physform/internal/formula"
	"github.com/matsen/physform/internal/logging"
	"github.com/matsen/physform/internal/query"
	"github.com/matsen/physform/internal/render"
	"github.com/matsen/physform/internal/storage"
	"github.com/matsen/physform/internal/telegram"
	"github.com/spf13/cobra"
)

var (
	botLogLevel string
	botLogFile  string
	botNoImages bool
)

func init() {
	botCmd.Flags().StringVar(&botLogLevel, "log-level", "", "Log level (debug, info, warn, error); overrides global config")
	botCmd.Flags().StringVar(&botLogFile, "log-file", "", "Append JSON logs to this file; overrides global config")
	botCmd.Flags().BoolVar(&botNoImages, "no-images", false, "Send formulas as text only")
	rootCmd.AddCommand(botCmd)
}

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Serve the catalog as a Telegram bot",
	Long: `Serve the catalog as a Telegram bot until interrupted.

Requires TELEGRAM_BOT_TOKEN (environment or .env) or telegram_token in the
global config. Changes made through chat commands are written back only
on /save.`,
	Args: cobra.NoArgs,
	RunE: runBot,
}

func runBot(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	token := config.GetTelegramToken()
	if token == "" {
		exitWithError(ExitConfigError, "TELEGRAM_BOT_TOKEN not set\n\nSet it in the environment, a .env file, or telegram_token in %s", config.GlobalConfigPath())
	}

	logger, closeLog, err := logging.New(botLoggingOptions())
	if err != nil {
		exitWithError(ExitConfigError, "configuring logging: %v", err)
	}
	defer closeLog()

	root := mustFindLibrary()
	cfg := mustLoadConfig(root)
	backend := mustOpenBackend(ctx, root, cfg)
	store := mustLoadStore(ctx, backend)
	logger.Info("catalog loaded", "location", backend.Location(), "sections", store.Catalog().Len())

	client := telegram.NewClient(token)
	me, err := client.GetMe(ctx)
	if err != nil {
		if telegram.IsAuthError(err) {
			exitWithError(ExitConfigError, "telegram rejected the bot token: %v", err)
		}
		exitWithError(ExitError, "connecting to telegram: %v", err)
	}
	logger.Info("connected", "bot", me.Username)

	opts := []bot.Option{
		bot.WithLogger(logger),
		bot.WithSave(func(ctx context.Context, c *formula.Catalog) error {
			if err := storage.Save(ctx, backend, c); err != nil {
				return err
			}
			if err := refreshIndex(root, c); err != nil {
				logger.Warn("updating query index", "error", err)
			}
			return nil
		}),
	}
	if !botNoImages {
		opts = append(opts, bot.WithRenderer(render.NewLaTeX(cfg.RenderURL, cfg.RenderDPI)))
	}
	d := bot.New(query.NewEngine(store), client, opts...)

	if err := d.Run(ctx, client, bot.RunOptions{}); err != nil {
		exitWithError(ExitConfigError, "bot stopped: %v", err)
	}
	return nil
}

// botLoggingOptions merges flags over the global config.
func botLoggingOptions() logging.Options {
	opts := logging.Options{
		Level:   botLogLevel,
		LogFile: botLogFile,
		Journal: true,
	}
	global, err := config.LoadGlobalConfig()
	if err != nil {
		return opts
	}
	if opts.Level == "" {
		opts.Level = global.LogLevel
	}
	if opts.LogFile == "" {
		opts.LogFile = config.ExpandPath(global.LogFile)
	}
	return opts
}
