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

	"github.com/spf13/cobra"

	"github.com/0xmhha/labseat/pkg/httpapi"
	"github.com/0xmhha/labseat/pkg/scheduler"
	"github.com/0xmhha/labseat/pkg/storage"
	"github.com/0xmhha/labseat/pkg/watcher"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the board over HTTP and run the nightly scheduler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withEnv(cmd, false, func(e *env) error {
				if addr == "" {
					addr = e.cfg.Server.Addr
				}
				return serve(cmd.Context(), cmd, e, addr)
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

// serve runs the HTTP surface, the tick scheduler and, when configured,
// the import inbox until interrupted.
func serve(parent context.Context, cmd *cobra.Command, e *env, addr string) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := e.log.Component("serve")

	runner, err := scheduler.NewRunner(scheduler.RunnerConfig{
		Interval: e.cfg.Schedule.TickInterval,
	}, e.board, e.log)
	if err != nil {
		return err
	}
	if err := runner.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = runner.Close() }()

	if dir := e.cfg.Inbox.Dir; dir != "" {
		inboxDone, err := startInbox(ctx, e, dir)
		if err != nil {
			return err
		}
		defer func() {
			stop()
			<-inboxDone
		}()
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           httpapi.New(e.board, e.log).Handler(cmd.ErrOrStderr()),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", addr, "db", e.store.Path())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown failed: %w", err)
	}
	log.Info("server stopped")
	return nil
}

// startInbox watches dir for export documents and imports them into the
// board. The returned channel is closed once the inbox has stopped.
func startInbox(ctx context.Context, e *env, dir string) (<-chan struct{}, error) {
	dir = storage.ExpandHome(dir)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create inbox: %w", err)
	}

	w, err := watcher.New(watcher.Config{DebounceInterval: e.cfg.Inbox.Debounce}, e.log)
	if err != nil {
		return nil, err
	}

	inbox := watcher.NewInbox(w, e.board.Import, e.log)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() { _ = w.Close() }()
		if err := inbox.Run(ctx, dir); err != nil {
			e.log.Error("inbox stopped", "dir", dir, "error", err)
		}
	}()
	return done, nil
}
