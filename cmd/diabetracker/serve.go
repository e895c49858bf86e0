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

	adapthttp "diabetracker/internal/adapter/http"
	"diabetracker/internal/scheduler"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	srv := adapthttp.New(rt.svc, rt.log)
	if rt.cfg.OIDC.Enabled() {
		oidcCfg, err := adapthttp.NewOIDCConfig(ctx, rt.cfg.OIDC.Issuer, rt.cfg.OIDC.ClientID, rt.cfg.OIDC.ClientSecret, rt.cfg.OIDC.RedirectURL)
		if err != nil {
			return fmt.Errorf("init sso: %w", err)
		}
		srv.WithOIDC(oidcCfg)
		rt.log.Info("sso enabled", "issuer", rt.cfg.OIDC.Issuer)
	}
	if rt.cfg.DisableAuth {
		rt.log.Warn("authentication disabled")
		srv.WithoutAuth()
	}

	purge := scheduler.NewSessionPurgeScheduler(rt.svc.Auth, rt.cfg.SessionPurgeSchedule, rt.log)
	if err := purge.Start(ctx); err != nil {
		return err
	}
	defer purge.Stop()

	httpSrv := &http.Server{
		Addr:              rt.cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		rt.log.Info("listening", "addr", rt.cfg.Addr, "store", rt.cfg.Store)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	rt.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}
