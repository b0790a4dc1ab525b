package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/entityauth/entitykit/internal/domain"
)

func newWatchCmd(app *app) *cobra.Command {
	var asJSON bool
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the session every time it changes",
		Long:  "Print the session every time it changes, following realtime updates when realtime.url is configured. Stops on interrupt.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if metricsAddr != "" {
				stop, err := serveMetrics(app, metricsAddr)
				if err != nil {
					return err
				}
				defer stop()
			}

			snapshots, cancel := app.service.SnapshotStream(ctx)
			defer cancel()

			for {
				select {
				case <-ctx.Done():
					return nil
				case snapshot, ok := <-snapshots:
					if !ok {
						return nil
					}
					if err := writeWatchedSession(cmd, app, snapshot, asJSON); err != nil {
						return err
					}
				}
			}
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output one JSON object per change")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve prometheus metrics on this address, e.g. 127.0.0.1:9464")

	return withRealtime(cmd)
}

func writeWatchedSession(cmd *cobra.Command, app *app, snapshot domain.Snapshot, asJSON bool) error {
	if !asJSON {
		return writeSession(cmd, app, snapshot, false)
	}

	view := sessionView{
		SignedIn:           snapshot.SignedIn(),
		UserID:             snapshot.UserID,
		Username:           snapshot.Username,
		Email:              snapshot.Email,
		Organizations:      snapshot.Organizations,
		ActiveOrganization: snapshot.ActiveOrganization,
	}
	if snapshot.UserID != "" {
		view.AccountID = domain.NewAccountID(snapshot.UserID, app.cfg.TenantID)
		view.Mode = domain.ModeFor(snapshot.Organizations)
	}

	return json.NewEncoder(cmd.OutOrStdout()).Encode(view)
}

func serveMetrics(app *app, addr string) (func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen metrics: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))
	server := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Warn("metrics server stopped", zap.Error(err))
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}, nil
}
