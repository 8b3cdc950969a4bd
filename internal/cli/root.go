package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"econcal/internal/calendar"
	"econcal/internal/config"
	"econcal/internal/infrastructure"
	"econcal/internal/validation"
)

// options carries the state shared by every subcommand.
type options struct {
	configFile string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
	files  *validation.FileValidator
	now    calendar.Clock
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewRootCommand builds the calendarctl command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&options{now: calendar.SystemClock})
}

func newRootCommand(opts *options) *cobra.Command {
	root := &cobra.Command{
		Use:           "calendarctl",
		Short:         "Render economic calendar and quotes documents from JSON files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFrom(opts.configFile)
			if err != nil {
				return err
			}
			if opts.logLevel != "" {
				cfg.Logging.Level = opts.logLevel
			}
			opts.cfg = cfg

			if opts.logger == nil {
				logger, err := infrastructure.InitializeLogger(cfg.Logging)
				if err != nil {
					return fmt.Errorf("initialize logger: %w", err)
				}
				opts.logger = logger
			}
			opts.files = validation.NewFileValidator(opts.logger)
			if opts.now == nil {
				opts.now = calendar.SystemClock
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return infrastructure.CloseLogFile()
		},
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "Path to configuration file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override log level defined in config")

	root.AddCommand(newRenderCommand(opts))
	root.AddCommand(newQuotesCommand(opts))
	root.AddCommand(newExportCommand(opts))
	root.AddCommand(newVersionCommand())

	return root
}

// clock returns the reference clock, pinned to date when it is set.
func (o *options) clock(date string) (calendar.Clock, error) {
	if date == "" {
		return o.now, nil
	}
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return nil, fmt.Errorf("invalid --date value: %w", err)
	}
	return func() time.Time { return t }, nil
}

func reportf(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}
