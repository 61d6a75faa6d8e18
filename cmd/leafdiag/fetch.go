package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/plantlab/leafdiag/internal/config"
	"github.com/plantlab/leafdiag/internal/fetch"
)

var fetchModelCmd = &cobra.Command{
	Use:   "fetch-model",
	Short: "Download the model artifact without starting the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load(viper.GetViper())

		log, err := newLogger(cfg.LogLevel)
		if err != nil {
			return err
		}
		defer log.Sync()

		fetcher := fetch.New(cfg.FetchTimeout, log)
		if err := fetcher.Ensure(cmd.Context(), cfg.ModelPath, cfg.ModelURL); err != nil {
			return err
		}
		log.Info("model artifact ready", zap.String("path", cfg.ModelPath))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchModelCmd)
}
