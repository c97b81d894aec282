package profiler

import (
	"runtime"
	"time"

	"go.uber.org/zap"
)

// Profiler tracks tick rate, mixer load and memory statistics of the plugin's tick driver.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	log *zap.Logger

	tickCount      int
	advanced       int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
}

// NewProfiler creates a new Profiler logging through log.
// Update interval defaults to 1 second.
//
// Parameters:
//   - log: the logger stats are written to; nil disables output
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(log *zap.Logger) *Profiler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Profiler{
		log:            log,
		updateInterval: time.Second,
	}
}

// SetInterval changes how often stats are logged.
//
// Parameters:
//   - d: the interval; values <= 0 are ignored
func (p *Profiler) SetInterval(d time.Duration) {
	if d > 0 {
		p.updateInterval = d
	}
}

// Tick should be called once per driver tick to track tick timing.
// Logs statistics when the update interval has elapsed since the previous report.
// Statistics include: ticks/second, mixers advanced per tick, heap usage, allocation rate
// and GC count/pause times.
//
// Parameters:
//   - now: the tick timestamp
//   - advanced: how many mixers the tick advanced
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(now time.Time, advanced int) bool {
	if p.lastTime.IsZero() {
		p.lastTime = now
	}
	p.tickCount++
	p.advanced += advanced
	elapsed := now.Sub(p.lastTime)

	if elapsed < p.updateInterval {
		return false
	}

	tps := float64(p.tickCount) / elapsed.Seconds()
	perTick := float64(p.advanced) / float64(p.tickCount)

	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 GC pauses
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			maxPauseUs = max(maxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	p.log.Info("tick profile",
		zap.Float64("ticks_per_sec", tps),
		zap.Float64("mixers_per_tick", perTick),
		zap.Float64("heap_mb", allocMB),
		zap.Float64("alloc_mb_per_sec", allocRateMB),
		zap.Uint32("gc", gcCount),
		zap.Uint64("gc_last_us", lastPauseUs),
		zap.Uint64("gc_max_us", maxPauseUs),
	)

	p.tickCount = 0
	p.advanced = 0
	p.lastTime = now
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
