package main

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/quay/zlog"
)

// Serve runs one assessment, then serves /metrics on addr (args[0], default
// ":8080") until ctx is canceled.
func Serve(ctx context.Context, cfg *commonConfig, args []string) error {
	addr := ":8080"
	if len(args) > 0 {
		addr = args[0]
	}

	if _, err := runOnce(ctx, cfg.ConfigPath); err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	zlog.Info(ctx).Str("addr", addr).Msg("serving metrics")
	select {
	case <-ctx.Done():
		return srv.Close()
	case err := <-errc:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
