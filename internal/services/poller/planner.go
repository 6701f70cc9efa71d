package poller

import (
	"math/rand"
	"time"

	"github.com/BearBump/ClaimBox/internal/models"
)

type Rand interface {
	Intn(n int) int
}

// PlannerConfig decides how soon a return parcel is asked about again.
type PlannerConfig struct {
	// DeliveredDelay only matters if the claim did not pick up the delivery.
	DeliveredDelay time.Duration

	// In-transit parcels are rechecked at a random point of this range so that
	// parcels registered together do not hit the carrier together.
	InTransitMinDelay time.Duration
	InTransitMaxDelay time.Duration

	// UnknownDelay covers parcels the carrier has not seen yet, e.g. a pickup
	// that has been scheduled but not performed.
	UnknownDelay time.Duration

	// Backoff steps after the 1st, 2nd, 3rd and later consecutive failures.
	Backoff []time.Duration
}

func DefaultPlannerConfig() PlannerConfig {
	return PlannerConfig{
		DeliveredDelay:    24 * time.Hour,
		InTransitMinDelay: 30 * time.Minute,
		InTransitMaxDelay: 120 * time.Minute,
		UnknownDelay:      90 * time.Minute,
		Backoff:           []time.Duration{5 * time.Minute, 15 * time.Minute, 30 * time.Minute, 60 * time.Minute},
	}
}

type Planner struct {
	cfg PlannerConfig
	r   Rand
}

func NewPlanner(cfg PlannerConfig, r Rand) *Planner {
	def := DefaultPlannerConfig()
	if cfg.DeliveredDelay <= 0 {
		cfg.DeliveredDelay = def.DeliveredDelay
	}
	if cfg.InTransitMinDelay <= 0 {
		cfg.InTransitMinDelay = def.InTransitMinDelay
	}
	if cfg.InTransitMaxDelay <= 0 {
		cfg.InTransitMaxDelay = def.InTransitMaxDelay
	}
	if cfg.InTransitMaxDelay < cfg.InTransitMinDelay {
		cfg.InTransitMaxDelay = cfg.InTransitMinDelay
	}
	if cfg.UnknownDelay <= 0 {
		cfg.UnknownDelay = def.UnknownDelay
	}
	steps := make([]time.Duration, 0, len(cfg.Backoff))
	for _, d := range cfg.Backoff {
		if d > 0 {
			steps = append(steps, d)
		}
	}
	if len(steps) == 0 {
		steps = def.Backoff
	}
	cfg.Backoff = steps
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Planner{cfg: cfg, r: r}
}

func (p *Planner) NextCheckDelay(carrierStatus string) time.Duration {
	switch carrierStatus {
	case models.CarrierStatusDelivered:
		return p.cfg.DeliveredDelay
	case models.CarrierStatusInTransit:
		lo := p.cfg.InTransitMinDelay
		hi := p.cfg.InTransitMaxDelay
		if hi == lo {
			return lo
		}
		secLo := int(lo.Seconds())
		secHi := int(hi.Seconds())
		if secHi < secLo {
			secHi = secLo
		}
		return time.Duration(secLo+p.r.Intn(secHi-secLo+1)) * time.Second
	default:
		return p.cfg.UnknownDelay
	}
}

// BackoffDelay is the wait after the nextFailCount-th consecutive failure.
func (p *Planner) BackoffDelay(nextFailCount int32) time.Duration {
	i := int(nextFailCount) - 1
	if i < 0 {
		i = 0
	}
	if i >= len(p.cfg.Backoff) {
		i = len(p.cfg.Backoff) - 1
	}
	return p.cfg.Backoff[i]
}
