// Package govern enforces wall-clock and heap budgets on outline runs.
//
// A [Governor] derives a guarded context from a parent context and
// cancels it when either budget is exhausted. The extraction engine
// treats that cancellation as a truncation signal: pages classified so
// far are kept and assembled into a valid partial outline. The library
// core never installs a governor on its own; binaries wrap their run
// contexts explicitly.
package govern

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"time"
)

var (
	// ErrWallBudget is the cancellation cause when the wall-clock
	// budget runs out.
	ErrWallBudget = errors.New("govern: wall-clock budget exhausted")

	// ErrHeapBudget is the cancellation cause when a heap sample
	// exceeds the configured ceiling.
	ErrHeapBudget = errors.New("govern: heap budget exhausted")
)

// Config controls the budgets a [Governor] enforces.
type Config struct {
	// Wall is the wall-clock budget for a guarded run.
	// Default: 10 * time.Second
	Wall time.Duration

	// HeapLimit is the heap ceiling in bytes. A sample observing
	// more allocated heap than this cancels the guarded context.
	// Default: 200 << 20 (200 MB)
	HeapLimit uint64

	// PollInterval is how often the heap is sampled.
	// Default: 100 * time.Millisecond
	PollInterval time.Duration

	// Logger receives budget-breach warnings. nil means slog.Default().
	Logger *slog.Logger `json:"-" yaml:"-"`
}

// DefaultConfig returns the default governor budgets.
func DefaultConfig() Config {
	return Config{
		Wall:         10 * time.Second,
		HeapLimit:    200 << 20,
		PollInterval: 100 * time.Millisecond,
	}
}

func (c *Config) sanitize() {
	def := DefaultConfig()
	if c.Wall <= 0 {
		c.Wall = def.Wall
	}
	if c.HeapLimit == 0 {
		c.HeapLimit = def.HeapLimit
	}
	if c.PollInterval <= 0 {
		c.PollInterval = def.PollInterval
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Governor watches a run and cancels it when a budget is exhausted.
type Governor struct {
	config Config
}

// New creates a Governor with default budgets.
func New() *Governor {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a Governor with custom budgets. Zero-valued
// fields fall back to their defaults.
func NewWithConfig(config Config) *Governor {
	config.sanitize()
	return &Governor{config: config}
}

// Guard derives a context from ctx that is cancelled when the
// wall-clock budget elapses or a heap sample exceeds the ceiling. The
// cancellation cause is [ErrWallBudget] or [ErrHeapBudget],
// retrievable through [context.Cause] or [Breach].
//
// The returned stop function releases the watcher goroutine; callers
// must invoke it once the guarded work finishes.
func (g *Governor) Guard(ctx context.Context) (context.Context, context.CancelFunc) {
	guarded, cancel := context.WithCancelCause(ctx)
	go g.watch(guarded, cancel)
	return guarded, func() { cancel(nil) }
}

func (g *Governor) watch(ctx context.Context, cancel context.CancelCauseFunc) {
	timer := time.NewTimer(g.config.Wall)
	defer timer.Stop()
	ticker := time.NewTicker(g.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			g.config.Logger.Warn("wall-clock budget exhausted",
				"budget", g.config.Wall)
			cancel(ErrWallBudget)
			return
		case <-ticker.C:
			usage := SampleUsage()
			if usage.HeapBytes > g.config.HeapLimit {
				g.config.Logger.Warn("heap budget exhausted",
					"alloc_mb", usage.HeapBytes>>20,
					"limit_mb", g.config.HeapLimit>>20)
				cancel(ErrHeapBudget)
				return
			}
		}
	}
}

// Breach reports which budget cancelled ctx. It returns nil when the
// context is live or was cancelled for any other reason.
func Breach(ctx context.Context) error {
	cause := context.Cause(ctx)
	if errors.Is(cause, ErrWallBudget) || errors.Is(cause, ErrHeapBudget) {
		return cause
	}
	return nil
}

// Usage is a point-in-time sample of process resource consumption.
type Usage struct {
	HeapBytes  uint64
	Goroutines int
}

// SampleUsage reads current process usage. The read costs roughly
// 10µs and may briefly stop the world.
func SampleUsage() Usage {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	return Usage{
		HeapBytes:  mem.Alloc,
		Goroutines: runtime.NumGoroutine(),
	}
}
