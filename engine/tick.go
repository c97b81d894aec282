package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-gltf/engine/registry"
	"go.uber.org/zap"
)

const defaultTickInterval = 16 * time.Millisecond

func (p *plugin) Tick(now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.mailbox.Drain()

	advanced := 0
	if m := p.stage.ActiveMap(); m != nil && !m.Loading() {
		var dt float32
		if !p.lastTick.IsZero() {
			dt = float32(now.Sub(p.lastTick).Seconds())
		}
		p.lastTick = now

		// The registry is cleared before anything on the new map advances.
		p.registry.Observe(m)
		p.registry.Each(func(_ int, e *registry.Entry) {
			e.Advance(dt)
			advanced++
		})
	}

	if p.profilingEnabled {
		p.profiler.Tick(now, advanced)
	}
}

// SetTickInterval sets the period Run ticks at.
// If Run is active, the change takes effect immediately.
func (p *plugin) SetTickInterval(d time.Duration) {
	if d <= 0 {
		d = defaultTickInterval
	}

	p.mu.Lock()
	running := p.running
	if !running {
		p.tickInterval = d
	}
	p.mu.Unlock()

	if !running {
		return
	}
	// Non-blocking send - if the channel is full, replace the pending value
	select {
	case p.tickRateChannel <- d:
	default:
		select {
		case <-p.tickRateChannel:
		default:
		}
		p.tickRateChannel <- d
	}
}

func (p *plugin) Run() {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	interval := p.tickInterval
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	p.log.Info("tick driver started", zap.Duration("interval", interval))

	for {
		select {
		case <-p.quitChannel:
			p.log.Info("tick driver stopped")
			return
		case now := <-ticker.C:
			p.Tick(now)
		case d := <-p.tickRateChannel:
			ticker.Reset(d)
			p.mu.Lock()
			p.tickInterval = d
			p.mu.Unlock()
		}
	}
}

// Quit signals Run to return.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (p *plugin) Quit() {
	p.quitOnce.Do(func() {
		close(p.quitChannel)
	})
}
