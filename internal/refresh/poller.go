// Package refresh re-derives today's clearance boards on a fixed interval.
// Every cycle reads a fresh snapshot; nothing derived is kept between cycles.
package refresh

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"shuttle-service/internal/clearance"
	"shuttle-service/internal/lifecycle"
	"shuttle-service/internal/service"
)

type OverviewSource interface {
	Overview(ctx context.Context) (*service.Overview, error)
}

type Publisher interface {
	PublishClearance(shift clearance.Shift, board service.ClearanceBoard) error
}

type Recorder interface {
	ObserveRefresh(d time.Duration, err error)
	SetTripStates(counts map[lifecycle.State]int)
	SetClearance(shift clearance.Shift, results []clearance.Result)
}

type Poller struct {
	source    OverviewSource
	interval  time.Duration
	publisher Publisher
	metrics   Recorder
	log       zerolog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPoller builds a poller. publisher and metrics may be nil.
func NewPoller(source OverviewSource, interval time.Duration, publisher Publisher, metrics Recorder, log zerolog.Logger) *Poller {
	return &Poller{
		source:    source,
		interval:  interval,
		publisher: publisher,
		metrics:   metrics,
		log:       log,
	}
}

// Start runs one cycle immediately and then one per interval until ctx is
// done or Stop is called.
func (p *Poller) Start(parent context.Context) {
	if p.interval <= 0 {
		p.log.Warn().Msg("refresh interval not positive, poller disabled")
		return
	}
	ctx, cancel := context.WithCancel(parent)
	p.cancel = cancel
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.cycle(ctx)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.cycle(ctx)
			}
		}
	}()
}

func (p *Poller) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
}

func (p *Poller) cycle(ctx context.Context) {
	if _, err := p.RunOnce(ctx); err != nil && ctx.Err() == nil {
		p.log.Error().Err(err).Msg("refresh cycle failed")
	}
}

// RunOnce derives both boards from a fresh snapshot, records them and
// publishes them. Publish failures are logged and do not fail the cycle.
func (p *Poller) RunOnce(ctx context.Context) (*service.Overview, error) {
	start := time.Now()
	overview, err := p.source.Overview(ctx)
	if p.metrics != nil {
		p.metrics.ObserveRefresh(time.Since(start), err)
	}
	if err != nil {
		return nil, err
	}

	if p.metrics != nil {
		p.metrics.SetTripStates(overview.States)
		p.metrics.SetClearance(clearance.ShiftAM, overview.AM.Worksites)
		p.metrics.SetClearance(clearance.ShiftPM, overview.PM.Worksites)
	}

	if p.publisher != nil {
		for _, board := range []service.ClearanceBoard{overview.AM, overview.PM} {
			if err := p.publisher.PublishClearance(board.Shift, board); err != nil {
				p.log.Warn().Err(err).Str("shift", string(board.Shift)).Msg("publish clearance failed")
			}
		}
	}

	p.log.Debug().
		Str("day", overview.Day).
		Int("am_worksites", len(overview.AM.Worksites)).
		Int("pm_worksites", len(overview.PM.Worksites)).
		Dur("took", time.Since(start)).
		Msg("refresh cycle complete")
	return overview, nil
}
