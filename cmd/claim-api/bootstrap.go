package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BearBump/ClaimBox/config"
	"github.com/BearBump/ClaimBox/internal/broker/kafka"
	"github.com/BearBump/ClaimBox/internal/cache/rediscache"
	"github.com/BearBump/ClaimBox/internal/integrations/orders/httporders"
	"github.com/BearBump/ClaimBox/internal/services/claims"
	"github.com/BearBump/ClaimBox/internal/storage/pgclaim"
)

type claimAPIApp struct {
	ctx      context.Context
	cancel   context.CancelFunc
	opts     claimAPIOpts
	svc          *claims.Service
	openConsumer func() kafkaConsumer
	closers      []func()
}

func mustBootstrapClaimAPI() *claimAPIApp {
	cfgPath := os.Getenv("configPath")
	if cfgPath == "" {
		panic("configPath env var is required")
	}
	swaggerPath := os.Getenv("swaggerPath")
	if swaggerPath == "" {
		panic("swaggerPath env var is required")
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		panic(fmt.Sprintf("failed to parse config, %v", err))
	}

	httpAddr := cfg.ClaimBox.HTTPAddr
	if httpAddr == "" {
		httpAddr = ":8080"
	}
	consumerGroup := cfg.ClaimBox.KafkaConsumerGroup
	if consumerGroup == "" {
		consumerGroup = "claim-api"
	}
	eventsTopic := cfg.Kafka.ClaimEventsTopicName
	if eventsTopic == "" {
		eventsTopic = "claim.events"
	}
	updatesTopic := cfg.Kafka.ReturnShipmentUpdatedTopicName
	if updatesTopic == "" {
		updatesTopic = "claim.return-shipment.updated"
	}

	cacheTTL := time.Duration(cfg.ClaimBox.CurrentClaimTTLSeconds) * time.Second
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	ordersTimeout := time.Duration(cfg.Orders.TimeoutSeconds) * time.Second

	sslMode := cfg.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	connString := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Database.Username, cfg.Database.Password, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName, sslMode)
	st := mustOpenPostgresWithRetry(connString, 60*time.Second)

	redisAddr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
	rc := rediscache.New(redisAddr)

	brokers := []string{fmt.Sprintf("%s:%d", cfg.Kafka.Host, cfg.Kafka.Port)}
	producer := kafka.NewProducer(brokers)

	svc := claims.New(st, rc, cacheTTL,
		kafka.NewClaimEvents(producer, eventsTopic),
		httporders.New(cfg.Orders.BaseURL, ordersTimeout),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	return &claimAPIApp{
		ctx:    ctx,
		cancel: cancel,
		opts: claimAPIOpts{
			httpAddr:      httpAddr,
			swaggerPath:   swaggerPath,
			topic:         updatesTopic,
			consumerGroup: consumerGroup,
			readiness: map[string]func(ctx context.Context) error{
				"postgres": st.Ping,
				"redis":    rc.Ping,
			},
		},
		svc: svc,
		openConsumer: func() kafkaConsumer {
			return kafka.NewConsumer(brokers, updatesTopic, consumerGroup)
		},
		closers: []func(){
			func() { _ = producer.Close() },
			func() { _ = rc.Close() },
			st.Close,
		},
	}
}

func mustOpenPostgresWithRetry(connString string, wait time.Duration) *pgclaim.Storage {
	deadline := time.Now().Add(wait)
	var lastErr error
	for time.Now().Before(deadline) {
		st, err := pgclaim.New(connString)
		if err == nil {
			return st
		}
		lastErr = err
		time.Sleep(1 * time.Second)
	}
	panic(fmt.Sprintf("postgres is not ready after %s: %v", wait, lastErr))
}

func (a *claimAPIApp) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	for _, c := range a.closers {
		c()
	}
}

func (a *claimAPIApp) Run() error {
	return runClaimAPI(a.ctx, a.opts, a.svc, a.openConsumer)
}
