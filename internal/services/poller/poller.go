package poller

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/BearBump/ClaimBox/internal/broker/messages"
	"github.com/BearBump/ClaimBox/internal/cache/rediscache"
	"github.com/BearBump/ClaimBox/internal/integrations/carrier"
	"github.com/BearBump/ClaimBox/internal/models"
	"github.com/pkg/errors"
)

type Repository interface {
	ClaimDueReturnChecks(ctx context.Context, now time.Time, limit int, lease time.Duration) ([]*models.ReturnCheck, error)
}

type Producer interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, error)
}

// Poller asks carriers about return parcels that are due and publishes what it
// learned. It never touches claims itself; the claim API consumes the updates.
type Poller struct {
	repo     Repository
	carrier  carrier.Client
	producer Producer
	rl       RateLimiter

	topic string

	planner *Planner
	now     func() time.Time

	pollInterval       time.Duration
	batchSize          int
	concurrency        int
	lease              time.Duration
	rateLimitPerMinute int64
	carrierLimits      map[string]int64
	publishAttempts    int

	triggerCh chan struct{}

	startedAtUnixNano   int64
	lastCycleUnixNano   atomic.Int64
	lastTriggerUnixNano atomic.Int64
	totalLeased         atomic.Int64
	totalProcessed      atomic.Int64
	totalDeferred       atomic.Int64
	totalErrors         atomic.Int64
	inFlight            atomic.Int64
	lastErrorMu         sync.Mutex
	lastError           string
}

func New(repo Repository, c carrier.Client, producer Producer, rl RateLimiter, topic string) *Poller {
	return &Poller{
		repo: repo, carrier: c, producer: producer, rl: rl, topic: topic,
		planner:            NewPlanner(DefaultPlannerConfig(), nil),
		now:                func() time.Time { return time.Now().UTC() },
		pollInterval:       10 * time.Second,
		batchSize:          100,
		concurrency:        10,
		lease:              120 * time.Second,
		rateLimitPerMinute: 120,
		carrierLimits:      map[string]int64{},
		publishAttempts:    5,
		triggerCh:          make(chan struct{}, 1),
		startedAtUnixNano:  time.Now().UTC().UnixNano(),
	}
}

func (p *Poller) WithSettings(pollInterval time.Duration, batchSize, concurrency int, lease time.Duration, rlPerMin int64) *Poller {
	if pollInterval > 0 {
		p.pollInterval = pollInterval
	}
	if batchSize > 0 {
		p.batchSize = batchSize
	}
	if concurrency > 0 {
		p.concurrency = concurrency
	}
	if lease > 0 {
		p.lease = lease
	}
	if rlPerMin > 0 {
		p.rateLimitPerMinute = rlPerMin
	}
	return p
}

func (p *Poller) WithPlanner(cfg PlannerConfig) *Poller {
	p.planner = NewPlanner(cfg, nil)
	return p
}

// WithCarrierRateLimits overrides the per-minute budget for individual carriers.
func (p *Poller) WithCarrierRateLimits(perMinute map[string]int) *Poller {
	for code, n := range perMinute {
		if n > 0 {
			p.carrierLimits[strings.ToUpper(code)] = int64(n)
		}
	}
	return p
}

// Trigger forces an immediate poll cycle. Non-blocking; triggers coalesce.
func (p *Poller) Trigger() {
	p.lastTriggerUnixNano.Store(time.Now().UTC().UnixNano())
	select {
	case p.triggerCh <- struct{}{}:
	default:
	}
}

type Stats struct {
	StartedAt      time.Time  `json:"startedAt"`
	LastCycleAt    *time.Time `json:"lastCycleAt,omitempty"`
	LastTriggerAt  *time.Time `json:"lastTriggerAt,omitempty"`
	TotalLeased    int64      `json:"totalLeased"`
	TotalProcessed int64      `json:"totalProcessed"`
	TotalDeferred  int64      `json:"totalDeferred"`
	TotalErrors    int64      `json:"totalErrors"`
	InFlight       int64      `json:"inFlight"`
	LastError      string     `json:"lastError,omitempty"`
}

func (p *Poller) Stats() Stats {
	st := Stats{
		StartedAt:      time.Unix(0, p.startedAtUnixNano).UTC(),
		TotalLeased:    p.totalLeased.Load(),
		TotalProcessed: p.totalProcessed.Load(),
		TotalDeferred:  p.totalDeferred.Load(),
		TotalErrors:    p.totalErrors.Load(),
		InFlight:       p.inFlight.Load(),
	}
	if n := p.lastCycleUnixNano.Load(); n > 0 {
		t := time.Unix(0, n).UTC()
		st.LastCycleAt = &t
	}
	if n := p.lastTriggerUnixNano.Load(); n > 0 {
		t := time.Unix(0, n).UTC()
		st.LastTriggerAt = &t
	}
	p.lastErrorMu.Lock()
	st.LastError = p.lastError
	p.lastErrorMu.Unlock()
	return st
}

func (p *Poller) Run(ctx context.Context) error {
	t := time.NewTicker(p.pollInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			p.runOnce(ctx)
		case <-p.triggerCh:
			p.runOnce(ctx)
		}
	}
}

func (p *Poller) runOnce(ctx context.Context) {
	now := p.now()
	p.lastCycleUnixNano.Store(now.UnixNano())

	items, err := p.repo.ClaimDueReturnChecks(ctx, now, p.batchSize, p.lease)
	if err != nil {
		slog.Error("lease due return checks", "error", err.Error())
		p.recordError(err)
		return
	}
	p.totalLeased.Add(int64(len(items)))

	sem := make(chan struct{}, p.concurrency)
	var wg sync.WaitGroup
	for _, rc := range items {
		sem <- struct{}{}
		wg.Add(1)
		p.inFlight.Add(1)
		go func(rc *models.ReturnCheck) {
			defer func() {
				p.inFlight.Add(-1)
				<-sem
				wg.Done()
			}()
			if err := p.processOne(ctx, rc); err != nil {
				p.totalErrors.Add(1)
				p.recordError(err)
				slog.Error("process return check", "claim_id", rc.ClaimID, "error", err.Error())
			}
			p.totalProcessed.Add(1)
		}(rc)
	}
	wg.Wait()
}

func (p *Poller) recordError(err error) {
	p.lastErrorMu.Lock()
	p.lastError = err.Error()
	p.lastErrorMu.Unlock()
}

func (p *Poller) carrierLimit(code string) int64 {
	if n, ok := p.carrierLimits[strings.ToUpper(code)]; ok {
		return n
	}
	return p.rateLimitPerMinute
}

func (p *Poller) processOne(ctx context.Context, rc *models.ReturnCheck) error {
	now := p.now()

	if p.rl != nil && p.rateLimitPerMinute > 0 {
		key := rediscache.CarrierWindowKey(rc.Carrier, now, time.Minute)
		allowed, n, err := p.rl.Allow(ctx, key, p.carrierLimit(rc.Carrier), 70*time.Second)
		if err != nil {
			return err
		}
		if !allowed {
			// The lease runs out and the check comes back in a later cycle.
			slog.Warn("carrier budget exhausted, deferring", "carrier", rc.Carrier, "count", n, "claim_id", rc.ClaimID)
			p.totalDeferred.Add(1)
			return nil
		}
	}

	msg := messages.ReturnShipmentUpdated{
		ClaimID:        rc.ClaimID,
		Carrier:        rc.Carrier,
		TrackingNumber: rc.TrackingNumber,
		CheckedAt:      now,
	}

	res, err := p.carrier.Track(ctx, rc.Carrier, rc.TrackingNumber)
	if err != nil {
		e := err.Error()
		msg.Error = &e
		msg.NextCheckAt = now.Add(p.planner.BackoffDelay(rc.CheckFailCount + 1))
	} else {
		msg.CarrierStatus = res.Status
		msg.StatusRaw = res.StatusRaw
		msg.StatusAt = res.StatusAt
		msg.NextCheckAt = now.Add(p.planner.NextCheckDelay(res.Status))
		for _, e := range res.Events {
			var payload json.RawMessage
			if e.PayloadJSON != nil && *e.PayloadJSON != "" {
				payload = json.RawMessage(*e.PayloadJSON)
			}
			msg.Events = append(msg.Events, messages.TrackingEvent{
				Status:    e.Status,
				StatusRaw: e.StatusRaw,
				EventTime: e.EventTime,
				Location:  e.Location,
				Message:   e.Message,
				Payload:   payload,
			})
		}
	}

	b, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "marshal kafka msg")
	}
	return p.publish(ctx, []byte(strconv.FormatUint(rc.ClaimID, 10)), b)
}

// publish retries with a linear pause; the broker may still be starting.
func (p *Poller) publish(ctx context.Context, key, value []byte) error {
	var err error
	for i := 0; i < p.publishAttempts; i++ {
		if err = p.producer.Publish(ctx, p.topic, key, value); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(150*(i+1)) * time.Millisecond):
		}
	}
	return err
}
