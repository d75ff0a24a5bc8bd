package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/warp/landprice/api"
	"github.com/warp/landprice/pricing"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the price estimation API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if servePort > 0 {
			cfg.Server.Port = servePort
		}

		if err := cfg.Validate(); err != nil {
			return err
		}

		src, release, err := openSource(cfg)
		if err != nil {
			return err
		}
		defer release()

		// The dataset must be resident before the listener opens.
		idx, err := pricing.Load(cmd.Context(), src)
		if err != nil {
			zap.L().Error("failed to load dataset", zap.Error(err))
			return err
		}

		handler := api.NewHandler(idx)
		router := api.NewRouter(handler, cfg.Server.AllowedOrigins)

		reloader := api.NewReloader(src, handler, cfg.Dataset.ReloadInterval)
		reloader.Start()
		defer reloader.Stop()

		server := &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			zap.L().Info("server starting",
				zap.Int("port", cfg.Server.Port),
				zap.Int("observations", idx.Len()),
			)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return eris.Wrap(err, "server failed")
		case <-quit:
		}

		zap.L().Info("shutting down server")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return eris.Wrap(err, "server forced to shutdown")
		}

		zap.L().Info("server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "HTTP server port (overrides server.port)")
	rootCmd.AddCommand(serveCmd)
}
