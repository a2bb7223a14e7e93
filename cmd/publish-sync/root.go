package main

import (
	"errors"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/usamadar/shopify-publish-channel/internal/domain"
)

const (
	configMessage = "Please make sure SHOP_NAME and SHOPIFY_ADMIN_API_KEY are set in the .env file"
	argsMessage   = "Please provide source publication ID and one or more destination publication IDs"
)

// reportedError marks an error whose message the command already printed.
type reportedError struct{ err error }

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "publish-sync",
		Short: "Publish Shopify products from one sales channel to others",
		Long: `publish-sync finds every product published on a source publication but
missing from at least one destination publication, then publishes those
products to all of the destinations.

Example usage:
  publish-sync sync 12345 67890            # one destination
  publish-sync sync 12345 67890 24680      # several destinations
  publish-sync sync --dry-run 12345 67890  # list products without publishing
  publish-sync runs list                   # show recent runs (needs DATABASE_URL)`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newSyncCmd(), newRunsCmd(), newVersionCmd())
	return root
}

// userMessage turns argument and configuration errors into the fixed
// messages the tool has always printed.
func userMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingShopName), errors.Is(err, domain.ErrMissingAccessToken):
		return configMessage
	case errors.Is(err, domain.ErrInsufficientArgs):
		return argsMessage
	default:
		return err.Error()
	}
}

// newLogger builds the diagnostic logger: production settings, console
// encoding, written to w at the given level. Unknown levels fall back to info.
func newLogger(level string, w io.Writer) *zap.Logger {
	atom, err := zap.ParseAtomicLevel(level)
	if err != nil {
		atom = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.Level = atom
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return zap.New(
		zapcore.NewCore(zapcore.NewConsoleEncoder(cfg.EncoderConfig), zapcore.Lock(zapcore.AddSync(w)), atom),
		zap.AddCaller(),
	)
}
