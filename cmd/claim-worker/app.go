package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/BearBump/ClaimBox/config"
	"github.com/BearBump/ClaimBox/internal/broker/kafka"
	"github.com/BearBump/ClaimBox/internal/cache/rediscache"
	"github.com/BearBump/ClaimBox/internal/integrations/carrier"
	"github.com/BearBump/ClaimBox/internal/integrations/carrier/emulatorv1"
	"github.com/BearBump/ClaimBox/internal/integrations/carrier/fake"
	"github.com/BearBump/ClaimBox/internal/integrations/carrier/track24http"
	"github.com/BearBump/ClaimBox/internal/services/poller"
	"github.com/BearBump/ClaimBox/internal/storage/pgclaim"
)

type workerFactories struct {
	newStorage       func(cfg *config.Config) (repo poller.Repository, closeFn func(), err error)
	newProducer      func(cfg *config.Config) poller.Producer
	newRateLimiter   func(cfg *config.Config) poller.RateLimiter
	newCarrierClient func(cfg *config.Config) carrier.Client
}

func defaultWorkerFactories() workerFactories {
	return workerFactories{
		newStorage: func(cfg *config.Config) (poller.Repository, func(), error) {
			sslMode := cfg.Database.SSLMode
			if sslMode == "" {
				sslMode = "disable"
			}
			connString := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
				cfg.Database.Username, cfg.Database.Password, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName, sslMode)
			st, err := pgclaim.New(connString)
			if err != nil {
				return nil, nil, err
			}
			return st, st.Close, nil
		},
		newProducer: func(cfg *config.Config) poller.Producer {
			brokers := []string{fmt.Sprintf("%s:%d", cfg.Kafka.Host, cfg.Kafka.Port)}
			return kafka.NewProducer(brokers)
		},
		newRateLimiter: func(cfg *config.Config) poller.RateLimiter {
			redisAddr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
			return rediscache.NewRateLimiter(redisAddr)
		},
		newCarrierClient: func(cfg *config.Config) carrier.Client {
			// Without an emulator every carrier is served by the local fake.
			fallback := fake.New()
			if cfg.ClaimBox.CarrierEmulatorBaseURL == "" {
				return fallback
			}
			switch cfg.ClaimBox.CarrierEmulatorMode {
			case "emulator", "v1":
				return emulatorv1.New(cfg.ClaimBox.CarrierEmulatorBaseURL, cfg.ClaimBox.CarrierEmulatorAPIKey)
			case "track24":
				return track24http.New(cfg.ClaimBox.CarrierEmulatorBaseURL, cfg.ClaimBox.CarrierEmulatorAPIKey, cfg.ClaimBox.CarrierEmulatorDomain)
			default:
				return fallback
			}
		},
	}
}

func plannerConfig(cfg config.ClaimBoxConfig) poller.PlannerConfig {
	sec := func(n int) time.Duration { return time.Duration(n) * time.Second }
	pc := poller.PlannerConfig{
		DeliveredDelay:    sec(cfg.WorkerNextCheckDeliveredSeconds),
		InTransitMinDelay: sec(cfg.WorkerNextCheckInTransitMinSeconds),
		InTransitMaxDelay: sec(cfg.WorkerNextCheckInTransitMaxSeconds),
		UnknownDelay:      sec(cfg.WorkerNextCheckUnknownSeconds),
	}
	for _, n := range cfg.WorkerBackoffSeconds {
		if n > 0 {
			pc.Backoff = append(pc.Backoff, sec(n))
		}
	}
	return pc
}

func newPoller(cfg *config.Config, f workerFactories) (*poller.Poller, func(), error) {
	topic := cfg.Kafka.ReturnShipmentUpdatedTopicName
	if topic == "" {
		topic = "claim.return-shipment.updated"
	}

	pollInterval := time.Duration(cfg.ClaimBox.WorkerPollIntervalSeconds) * time.Second
	if pollInterval <= 0 {
		pollInterval = 10 * time.Second
	}
	batchSize := cfg.ClaimBox.WorkerBatchSize
	if batchSize <= 0 {
		batchSize = 100
	}
	concurrency := cfg.ClaimBox.WorkerConcurrency
	if concurrency <= 0 {
		concurrency = 10
	}
	lease := time.Duration(cfg.ClaimBox.WorkerLeaseSeconds) * time.Second
	if lease <= 0 {
		lease = 120 * time.Second
	}
	rlPerMin := int64(cfg.ClaimBox.WorkerRateLimitPerMinute)
	if rlPerMin <= 0 {
		rlPerMin = 120
	}

	repo, closeFn, err := f.newStorage(cfg)
	if err != nil {
		return nil, nil, err
	}

	p := poller.New(repo, f.newCarrierClient(cfg), f.newProducer(cfg), f.newRateLimiter(cfg), topic).
		WithSettings(pollInterval, batchSize, concurrency, lease, rlPerMin).
		WithCarrierRateLimits(cfg.ClaimBox.WorkerCarrierRateLimits).
		WithPlanner(plannerConfig(cfg.ClaimBox))
	return p, closeFn, nil
}

// RunClaimWorker polls carriers until ctx is done. The ops HTTP server runs
// alongside when a swagger file is given.
func RunClaimWorker(ctx context.Context, cfg *config.Config, f workerFactories, httpOpts workerHTTPOpts) error {
	p, closeFn, err := newPoller(cfg, f)
	if err != nil {
		return err
	}
	if closeFn != nil {
		defer closeFn()
	}

	if httpOpts.swaggerPath != "" {
		if httpOpts.httpAddr == "" {
			httpOpts.httpAddr = cfg.ClaimBox.WorkerHTTPAddr
		}
		httpOpts.poller = p
		httpOpts.cfg = cfg
		go func() {
			if err := runWorkerHTTPServer(ctx, httpOpts); err != nil {
				slog.Error("worker http server stopped", "error", err.Error())
			}
		}()
	}

	slog.Info("claim worker started")
	return p.Run(ctx)
}
