package commands

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/penwyp/go-tx-ledger/internal/bot"
	"github.com/spf13/cobra"
)

var botEnvFile string

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot",
	Long: `Runs a Telegram bot using long polling. Each chat gets its own ledger.

Configuration comes from the environment, optionally loaded from a .env file:
  BOT_TOKEN      bot token from @BotFather (required)
  ADMIN_IDS      comma-separated user ids allowed to use the bot (empty = everyone)
  POLL_TIMEOUT   long-poll timeout (default 30s)
  SESSION_TTL    drop chats idle for this long (default 24h, 0 disables)
  METRICS_ADDR   address for the Prometheus /metrics endpoint (empty disables)
  LOG_LEVEL      debug, info, warn or error

Chat commands: /start /status /report /finish_count /clear /stop`,
	RunE: runBot,
}

func init() {
	rootCmd.AddCommand(botCmd)

	botCmd.Flags().StringVar(&botEnvFile, "env-file", ".env",
		"Optional .env file with bot settings")
}

func runBot(cmd *cobra.Command, args []string) error {
	cfg, err := bot.LoadConfig(botEnvFile)
	if err != nil {
		if errors.Is(err, bot.ErrMissingToken) {
			return fmt.Errorf("%w: set it in the environment or in %s", err, botEnvFile)
		}
		return err
	}

	if err := setupRuntime(cfg.LogLevel); err != nil {
		return err
	}

	opts, err := engineOptions(cmd.Context())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return bot.Run(ctx, cfg, opts)
}
