package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/spf13/cobra"

	"rag-search/internal/api"
	"rag-search/internal/common/camunda"
	"rag-search/internal/common/config"
	"rag-search/internal/common/logger"
	"rag-search/internal/common/observability"
	answerquery "rag-search/internal/workers/rag/answer-query"
	"rag-search/pkg/registry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the query API and, if enabled, the workflow job worker",
	Long: `Serve exposes POST /query, /health, /ready and /metrics. When camunda is
enabled it also subscribes the answer-query job worker to the Zeebe broker.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides server.address)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Address = addr
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog).With(map[string]interface{}{
		"service": cfg.App.Name,
		"version": version,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs, err := observability.New(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("observability init failed: %w", err)
	}

	reg, err := registry.LoadRegistry(cfg.Registry.Path)
	if err != nil {
		return fmt.Errorf("registry load failed: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return fmt.Errorf("registry invalid: %w", err)
	}

	pipe, err := buildPipeline(ctx, cfg, log, obs)
	if err != nil {
		return err
	}

	server := api.NewServer(pipe, reg, log)
	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      server.Handler(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	var (
		zeebe     *camunda.Client
		jobWorker worker.JobWorker
	)
	if cfg.Camunda.Enabled {
		zeebe, err = camunda.Connect(ctx, camunda.ConfigFrom(cfg.Camunda), log)
		if err != nil {
			return fmt.Errorf("zeebe client failed: %w", err)
		}
		handler := answerquery.NewHandler(answerquery.LoadConfig(cfg), pipe, reg, log)
		jobWorker = zeebe.StartWorker(answerquery.TaskType, config.GetWorkerConfig(cfg, answerquery.TaskType), handler.Handle, log)
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("query api listening", map[string]interface{}{"address": cfg.Server.Address})
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()
	server.SetReady(true)

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received", nil)
	case err := <-serveErr:
		if err != nil {
			log.Error("query api failed", map[string]interface{}{"error": err})
		}
	}

	server.SetReady(false)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown failed", map[string]interface{}{"error": err})
	}
	if jobWorker != nil {
		jobWorker.Close()
		jobWorker.AwaitClose()
	}
	if zeebe != nil {
		if err := zeebe.Close(); err != nil {
			log.Error("error closing zeebe client", map[string]interface{}{"error": err})
		}
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		log.Error("observability shutdown failed", map[string]interface{}{"error": err})
	}

	log.Info("rag-search stopped", nil)
	return nil
}
