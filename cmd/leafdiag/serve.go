package main

import (
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/plantlab/leafdiag/internal/config"
	"github.com/plantlab/leafdiag/internal/fetch"
	"github.com/plantlab/leafdiag/internal/handlers"
	"github.com/plantlab/leafdiag/internal/model"
	"github.com/plantlab/leafdiag/internal/report"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Acquire the model if needed and serve the diagnosis API",
	RunE:  runServe,
}

func init() {
	flags := serveCmd.Flags()
	flags.String("addr", "", "listen address")
	flags.String("font-path", "", "TTF font used in reports (falls back to Helvetica)")
	flags.String("scratch-dir", "", "directory for transient report files (default: system temp)")

	viper.BindPFlag("addr", flags.Lookup("addr"))
	viper.BindPFlag("font.path", flags.Lookup("font-path"))
	viper.BindPFlag("scratch.dir", flags.Lookup("scratch-dir"))

	rootCmd.AddCommand(serveCmd)
}

func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load(viper.GetViper())

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	// No diagnosis can proceed without a model, so acquisition or load
	// failure halts startup before the listener opens.
	fetcher := fetch.New(cfg.FetchTimeout, log)
	if err := fetcher.Ensure(cmd.Context(), cfg.ModelPath, cfg.ModelURL); err != nil {
		log.Error("model acquisition failed", zap.Error(err))
		return err
	}

	classifier, err := model.New(cfg.ModelPath)
	if err != nil {
		log.Error("model load failed", zap.String("path", cfg.ModelPath), zap.Error(err))
		return err
	}
	defer classifier.Close()

	renderer := &report.Renderer{
		ScratchDir: cfg.ScratchDir,
		FontPath:   cfg.FontPath,
	}

	handler := handlers.NewHandler(classifier, renderer, log)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", enableCORS(handler.Health))
	mux.HandleFunc("/diagnose", enableCORS(handler.Diagnose))
	mux.HandleFunc("/report", enableCORS(handler.Report))

	log.Info("server starting",
		zap.String("addr", cfg.Addr),
		zap.String("model", cfg.ModelPath))

	return http.ListenAndServe(cfg.Addr, mux)
}
