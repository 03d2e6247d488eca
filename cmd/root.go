package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ziadkadry99/lucky-universe/internal/config"
)

var (
	cfgFile string
	verbose bool

	logger   = zap.NewNop()
	logLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)

	consoleLog bool
)

var rootCmd = &cobra.Command{
	Use:   "lucky",
	Short: "2026 Lucky Universe fortune service",
	Long: `Lucky Universe turns a birth date, birth time, gender and MBTI into a
2026 fortune reading, a daily lucky-number slot, a wish talisman and a
companion chat. Run it as an HTTP server for the web client, from the
terminal, or as an MCP server for AI agents.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		consoleLog = cmd.Name() == "fortune"
		l, err := newLogger(consoleLog)
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultConfigFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// newLogger builds the process logger. Output always goes to stderr so
// stdout stays free for MCP messages and rendered readings.
func newLogger(console bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if console {
		cfg = zap.NewDevelopmentConfig()
		logLevel.SetLevel(zapcore.WarnLevel)
	}
	if verbose {
		logLevel.SetLevel(zapcore.DebugLevel)
	}
	cfg.Level = logLevel
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}
