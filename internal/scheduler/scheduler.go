package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"github.com/srb2live/infoboard/serverinfo"
)

// RefreshFunc runs one fetch-and-render pass and returns the snapshot it
// applied, or an error when the page was left untouched.
type RefreshFunc func(ctx context.Context) (serverinfo.ServerInfo, error)

// Result is the outcome of one scheduled refresh.
type Result struct {
	// Info is the snapshot that was applied. Zero value when Err is set.
	Info serverinfo.ServerInfo

	// Err is the refresh failure, nil on success.
	Err error

	// Latency is the duration of the refresh pass.
	Latency time.Duration

	// CheckedAt is when the refresh completed.
	CheckedAt time.Time
}

// Scheduler invokes a [RefreshFunc] immediately on start and then once per
// interval, emitting a [Result] per attempt on the Results channel.
//
// Refreshes run sequentially within the scheduler; a tick that fires while a
// refresh is still running waits for it. Callers that trigger manual
// refreshes in parallel get the last-completion-wins behavior of the page
// regions, which the scheduler neither prevents nor orders.
//
// Start and Stop are safe for concurrent use.
type Scheduler struct {
	refresh  RefreshFunc
	interval time.Duration
	clk      clock.Clock
	logger   *slog.Logger
	results  chan Result

	mu        sync.Mutex
	started   bool
	stopped   bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New creates a [Scheduler].
//
// The clock parameter lets tests substitute a mock clock; production callers
// pass clock.New().
func New(refresh RefreshFunc, interval time.Duration, clk clock.Clock, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		refresh:  refresh,
		interval: interval,
		clk:      clk,
		logger:   logger,
		results:  make(chan Result, 1),
	}
}

// Results returns the channel of refresh outcomes. The channel is closed
// when the scheduler stops; consumers should drain it until closure.
func (s *Scheduler) Results() <-chan Result {
	return s.results
}

// Start begins the refresh loop in a background goroutine.
//
// Start is non-blocking and idempotent; calling it after Stop is a no-op.
// If ctx is nil, context.Background() is used.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.started = true

	if ctx == nil {
		ctx = context.Background()
	}
	var loopCtx context.Context
	loopCtx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		defer s.closeOnce.Do(func() { close(s.results) })

		s.runOnce(loopCtx)

		ticker := s.clk.Ticker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
				s.runOnce(loopCtx)
			}
		}
	}()
}

// Stop halts the scheduler, waits for an in-flight refresh to finish and
// closes the results channel. Idempotent; safe to call before Start.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.stopped {
		s.stopped = true
		if s.cancel != nil {
			s.cancel()
		}
	}
	s.mu.Unlock()

	s.wg.Wait()

	// ensure the channel is closed even if Start was never called
	s.closeOnce.Do(func() { close(s.results) })
}

// runOnce performs a single refresh and emits its result.
func (s *Scheduler) runOnce(ctx context.Context) {
	start := s.clk.Now()
	info, err := s.safeRefresh(ctx)

	result := Result{
		Info:      info,
		Err:       err,
		Latency:   s.clk.Now().Sub(start),
		CheckedAt: s.clk.Now(),
	}

	select {
	case s.results <- result:
	case <-ctx.Done():
	}
}

// safeRefresh calls the refresh function with panic recovery. A panicking
// refresh is reported as an error carrying a correlation ID; the full stack
// is logged server-side.
func (s *Scheduler) safeRefresh(ctx context.Context) (info serverinfo.ServerInfo, err error) {
	defer func() {
		if r := recover(); r != nil {
			correlationID := uuid.NewString()
			s.logger.Error("refresh panic",
				"correlation_id", correlationID,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
			info = serverinfo.ServerInfo{}
			err = fmt.Errorf("refresh panic (correlation_id: %s)", correlationID)
		}
	}()
	return s.refresh(ctx)
}
