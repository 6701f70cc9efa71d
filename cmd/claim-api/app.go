package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	claimsapi "github.com/BearBump/ClaimBox/internal/api/claims_api"
	"github.com/BearBump/ClaimBox/internal/broker/messages"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
)

type claimAPIOpts struct {
	httpAddr    string
	swaggerPath string

	topic         string
	consumerGroup string

	// readiness checks keyed by dependency name
	readiness map[string]func(ctx context.Context) error

	onListen func(httpAddr string)
}

type kafkaConsumer interface {
	Consume(ctx context.Context, handler func(key, value []byte) error) error
	Close() error
}

type carrierUpdates interface {
	ApplyCarrierUpdate(ctx context.Context, msg messages.ReturnShipmentUpdated) error
}

type claimService interface {
	claimsapi.ClaimService
	carrierUpdates
}

func runClaimAPI(ctx context.Context, opts claimAPIOpts, svc claimService, openConsumer func() kafkaConsumer) error {
	if opts.swaggerPath == "" {
		return fmt.Errorf("swaggerPath env var is required")
	}
	if _, err := os.Stat(opts.swaggerPath); os.IsNotExist(err) {
		return fmt.Errorf("swagger file not found: %s", opts.swaggerPath)
	}

	httpLis, err := net.Listen("tcp", opts.httpAddr)
	if err != nil {
		return err
	}
	if opts.onListen != nil {
		opts.onListen(httpLis.Addr().String())
	}

	httpErr := make(chan error, 1)
	go func() {
		httpErr <- runHTTPServer(ctx, httpLis, newRouter(claimsapi.New(svc), opts))
	}()

	go func() {
		slog.Info("kafka consumer started", "topic", opts.topic, "group", opts.consumerGroup)
		consumeCarrierUpdates(ctx, openConsumer, svc, time.Second)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-httpErr:
		return err
	}
}

func newRouter(api *claimsapi.ClaimsAPI, opts claimAPIOpts) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		failed := map[string]string{}
		for name, check := range opts.readiness {
			if err := check(ctx); err != nil {
				failed[name] = err.Error()
			}
		}
		if len(failed) > 0 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]any{"status": "not ready", "failed": failed})
			return
		}
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	})

	r.Get("/swagger.json", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, opts.swaggerPath)
	})
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger.json"),
	))

	api.Mount(r)
	return r
}

func runHTTPServer(ctx context.Context, lis net.Listener, h http.Handler) error {
	srv := &http.Server{Handler: h, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("HTTP server listening", "addr", lis.Addr().String())
	if err := srv.Serve(lis); err != nil && err != http.ErrServerClosed {
		return err
	}
	return ctx.Err()
}

// consumeCarrierUpdates feeds worker reports into the claim service until ctx
// is done. A failed update is left uncommitted and its reader is closed. After
// pause a new reader joins the group at the committed offset, so the failed
// update is delivered again.
func consumeCarrierUpdates(ctx context.Context, openConsumer func() kafkaConsumer, svc carrierUpdates, pause time.Duration) {
	for {
		consumer := openConsumer()
		err := consumer.Consume(ctx, func(_ []byte, value []byte) error {
			var m messages.ReturnShipmentUpdated
			if err := json.Unmarshal(value, &m); err != nil {
				// poison message, skip it
				slog.Error("decode return shipment update", "error", err.Error())
				return nil
			}
			return svc.ApplyCarrierUpdate(ctx, m)
		})
		if cerr := consumer.Close(); cerr != nil {
			slog.Warn("close kafka consumer", "error", cerr.Error())
		}
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			slog.Error("kafka consumer stopped", "error", err.Error())
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(pause):
		}
	}
}
