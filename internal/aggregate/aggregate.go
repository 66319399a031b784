package aggregate

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/fastpitchtools/fastpitch-events/internal/event"
	"github.com/fastpitchtools/fastpitch-events/internal/logger"
	"github.com/fastpitchtools/fastpitch-events/internal/source"
)

const (
	// Courtesy delay bounds between sequential source invocations; a small
	// randomized pause keeps upstream rate limiters quiet.
	DefaultDelayMin = 500 * time.Millisecond
	DefaultDelayMax = 1500 * time.Millisecond
)

// Controller drives every registered adapter and assembles one snapshot per
// run. It owns the result sequence: contributions are appended only after an
// adapter's invocation fully completes, and always in registration order.
type Controller struct {
	adapters []source.Adapter

	// Workers above 1 runs adapters on a bounded pool. Output order stays
	// registration order regardless of completion order, and each adapter
	// still targets its own upstream host with a single in-flight fetch.
	Workers int

	// DelayMin/DelayMax bound the courtesy pause between sequential
	// invocations. The pause is skipped in pooled mode.
	DelayMin time.Duration
	DelayMax time.Duration
}

// NewController registers the adapters in invocation order.
func NewController(adapters ...source.Adapter) *Controller {
	return &Controller{
		adapters: adapters,
		DelayMin: DefaultDelayMin,
		DelayMax: DefaultDelayMax,
	}
}

// Run invokes every adapter and returns the aggregated snapshot. A run never
// fails: any adapter error, including a panic, is logged and counted as a
// zero-length contribution, so one broken source never degrades the others.
func (c *Controller) Run(ctx context.Context) *event.Snapshot {
	start := time.Now()
	results := make([][]event.CanonicalEvent, len(c.adapters))

	if c.Workers > 1 {
		c.runPooled(ctx, results)
	} else {
		c.runSequential(ctx, results)
	}

	var all []event.CanonicalEvent
	for _, contribution := range results {
		all = append(all, contribution...)
	}

	snapshot := event.CreateSnapshot(all)

	logger.RecordTiming("aggregate.run", time.Since(start))
	logger.SetGauge("aggregate.events", float64(snapshot.Count))
	logger.Info("aggregation run complete", logger.Fields{
		"sources": len(c.adapters),
		"events":  snapshot.Count,
	})

	return snapshot
}

func (c *Controller) runSequential(ctx context.Context, results [][]event.CanonicalEvent) {
	for i := range c.adapters {
		results[i] = c.invoke(ctx, c.adapters[i])
		if i < len(c.adapters)-1 {
			c.courtesyPause(ctx)
		}
	}
}

func (c *Controller) runPooled(ctx context.Context, results [][]event.CanonicalEvent) {
	sem := make(chan struct{}, c.Workers)
	var wg sync.WaitGroup

	for i := range c.adapters {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			// Each goroutine writes only its own registration slot; the merge
			// below it is ordering-free.
			results[i] = c.invoke(ctx, c.adapters[i])
		}(i)
	}

	wg.Wait()
}

// invoke runs one adapter to completion and normalizes its yield. Failures of
// any kind, including panics from adapter internals, convert to an empty
// contribution here and propagate no further.
func (c *Controller) invoke(ctx context.Context, adapter source.Adapter) (events []event.CanonicalEvent) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("source panicked", logger.Fields{
				"source": adapter.Name(),
				"panic":  r,
			}, nil)
			logger.IncrCounter("aggregate.source.panics")
			events = nil
		}
	}()

	start := time.Now()
	raws, err := adapter.Extract(ctx)
	logger.RecordTiming("aggregate.source."+adapter.Name(), time.Since(start))

	if err != nil {
		logger.Error("source failed, contributing zero events", logger.Fields{
			"source": adapter.Name(),
		}, err)
		logger.IncrCounter("aggregate.source.failures")
		return nil
	}

	aliases := adapter.Aliases()
	events = make([]event.CanonicalEvent, 0, len(raws))
	for _, raw := range raws {
		events = append(events, event.Normalize(raw, aliases))
	}

	if len(events) == 0 {
		logger.Info("source returned no events", logger.Fields{"source": adapter.Name()})
	} else {
		logger.Info("source complete", logger.Fields{
			"source": adapter.Name(),
			"events": len(events),
		})
	}

	return events
}

// courtesyPause sleeps a uniformly random duration within the configured
// bounds, returning early if the context is done.
func (c *Controller) courtesyPause(ctx context.Context) {
	if c.DelayMax <= 0 {
		return
	}
	delay := c.DelayMin
	if spread := c.DelayMax - c.DelayMin; spread > 0 {
		delay += time.Duration(rand.Int63n(int64(spread)))
	}

	select {
	case <-time.After(delay):
	case <-ctx.Done():
	}
}
