package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"sales-assistant/internal/config"
)

func GetServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Starts the HTTP API on the configured port. The knowledge base is loaded
from the documents location before the listener opens.

Example:
  sales-assistant serve -c config.yaml`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg, log, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	app, err := buildApplication(ctx, cfg, log)
	if err != nil {
		return err
	}
	app.warm(ctx)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: app.router(),
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		log.Info(fmt.Sprintf("Server is running on port %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(fmt.Sprintf("Error running HTTP server: %s", err))
			serveErr <- err
		}
	}()

	select {
	case <-stop:
	case err := <-serveErr:
		app.close(ctx)
		return err
	}
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Duration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(fmt.Sprintf("Server forced to shutdown: %v", err))
	} else {
		log.Info("Server stopped gracefully.")
	}
	app.close(shutdownCtx)
	return nil
}
