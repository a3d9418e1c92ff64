package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/codelocate/internal/server"
)

var (
	serverPort       int
	serverCORSAll    bool
	serverAllowRoots bool
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP API server",
	Long: `Starts an HTTP server exposing POST /api/locate, POST /api/keywords and
GET /healthz.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg.LogLevel)

		engine, usage := newEngine(cfg, logger, engineOptions{symbols: true})
		srv := server.New(server.Config{
			Port:       serverPort,
			Root:       rootDir,
			AllowAll:   serverCORSAll,
			AllowRoots: serverAllowRoots,
		}, engine, logger)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
		case <-ctx.Done():
			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
		}
		logUsage(logger, usage)
		return nil
	},
}

func init() {
	serverCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "port to listen on")
	serverCmd.Flags().BoolVar(&serverCORSAll, "cors-all", false, "allow all CORS origins")
	serverCmd.Flags().BoolVar(&serverAllowRoots, "allow-roots", false, "let requests choose the workspace root")
	rootCmd.AddCommand(serverCmd)
}
