package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Dicklesworthstone/prochunter/internal/config"
)

var (
	// Version is set at build time
	Version = "1.0"
	// Commit is set at build time
	Commit = "none"
)

var (
	cfg    config.Config
	logger = zap.NewNop()
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prochunter",
		Short: "Snapshot battery, CPU, memory and process counts for this host",
		Long: `prochunter takes one snapshot of the local host and prints it.

Use "prochunter [command] --help" for more information about a command.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	cmd.PersistentFlags().String("config", config.DefaultPath(), "Config file (YAML)")
	cmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output (debug logging)")

	cmd.AddCommand(newInfoCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// Execute runs the root command until it returns or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	loaded, err := config.Load(path)
	if err != nil {
		return err
	}
	cfg = loaded

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.LogLevel = "debug"
	}

	l, err := newLogger(cfg.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	logger = l
	logger.Debug("config loaded", zap.String("path", path), zap.Duration("sample_interval", cfg.SampleInterval))
	return nil
}

// newLogger writes console-encoded logs to w so stdout stays the report.
func newLogger(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Level = lvl
	loggerConfig.Encoding = "console"
	loggerConfig.DisableStacktrace = true

	if w == os.Stderr {
		loggerConfig.OutputPaths = []string{"stderr"}
		loggerConfig.ErrorOutputPaths = []string{"stderr"}
		return loggerConfig.Build()
	}
	return loggerConfig.Build(zap.WrapCore(func(zapcore.Core) zapcore.Core {
		return zapcore.NewCore(
			zapcore.NewConsoleEncoder(loggerConfig.EncoderConfig),
			zapcore.AddSync(w),
			lvl,
		)
	}))
}
