package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/strrl/docuflow/internal/handler"
	"github.com/strrl/docuflow/internal/logging"
	"github.com/strrl/docuflow/internal/store"
)

var serveAddr string

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the local data directory as a document API",
		Long: `Serve documents*.jsonl and summaries*.jsonl from --data-dir over HTTP,
with the same endpoints the viewer calls:

  GET /api/documents/{userID}
  GET /api/summary/{docID}?lang=en|ml`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default :8787)")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		cfg.Server.Addr = serveAddr
	}

	logger := logging.New(cfg.Log.Level, os.Stderr)

	local, err := store.NewLocal(cfg.Local.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open data directory: %w", err)
	}

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler.NewRouter(handler.NewDocumentHandler(local, logger), logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("address", server.Addr).WithField("data_dir", cfg.Local.DataDir).Info("Server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Graceful shutdown
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-cmd.Context().Done():
	}

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("Server exited")
	return nil
}
