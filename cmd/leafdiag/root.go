package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var rootCmd = &cobra.Command{
	Use:   "leafdiag",
	Short: "Plant leaf nutrient diagnosis service",
	Long: "leafdiag classifies uploaded leaf photographs into healthy, nitrogen-deficient, " +
		"or zinc-deficient states and produces bilingual diagnoses with downloadable PDF reports.",
}

// Execute runs the CLI. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("model-path", "", "local path of the model artifact")
	flags.String("model-url", "", "download URL used when the artifact is missing")
	flags.String("log-level", "", "log level (debug, info, warn, error)")

	viper.BindPFlag("model.path", flags.Lookup("model-path"))
	viper.BindPFlag("model.url", flags.Lookup("model-url"))
	viper.BindPFlag("log.level", flags.Lookup("log-level"))
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
