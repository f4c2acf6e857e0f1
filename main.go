package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pitchpal/pitch-analyzer/api"
	cfg "github.com/pitchpal/pitch-analyzer/config"
	"github.com/pitchpal/pitch-analyzer/orchestrator"
)

// errReported marks failures whose JSON error document has already
// been written to stdout; main only sets the exit code for them.
var errReported = errors.New("reported")

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errReported) {
			writeErrorDoc(err.Error())
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pitchpal",
		Short:         "Speech-delivery analysis for a single recording",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newAnalyzeCmd(), newServeCmd())
	return root
}

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <audio-file>",
		Short: "Analyze one recording and print the JSON report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(args[0])
		},
	}
}

func runAnalyze(path string) error {
	conf, log, err := setup()
	if err != nil {
		return err
	}

	if st, err := os.Stat(path); err != nil || st.IsDir() {
		writeErrorDoc(fmt.Sprintf("audio file not found: %s", path))
		return errReported
	}

	p, err := orchestrator.NewPipeline(conf, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report := p.Run(ctx, path)
	if err := orchestrator.WriteReport(os.Stdout, report); err != nil {
		return err
	}
	if !report.Success {
		return errReported
	}
	return nil
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the analyzer over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	conf, log, err := setup()
	if err != nil {
		return err
	}

	p, err := orchestrator.NewPipeline(conf, log)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         conf.Server.Address,
		Handler:      api.NewHandlers(p, log).Router(),
		ReadTimeout:  conf.Server.ReadTimeout,
		WriteTimeout: conf.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", conf.Server.Address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("server failed")
			return errReported
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), conf.Server.WriteTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("shutdown failed")
			return errReported
		}
	}
	return nil
}

// setup loads config and builds the stderr logger; stdout stays
// reserved for the report document.
func setup() (*cfg.Root, *logrus.Logger, error) {
	conf, err := cfg.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if lvl, err := logrus.ParseLevel(conf.Pipeline.LogLvl); err == nil {
		log.SetLevel(lvl)
	}
	return conf, log, nil
}

func writeErrorDoc(msg string) {
	doc := map[string]any{"success": false, "error": msg}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		// Unreachable for a string map, but stdout must stay parseable.
		fmt.Println(`{"success": false, "error": "internal error"}`)
		return
	}
	fmt.Println(string(data))
}
