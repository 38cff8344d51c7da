package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/srb2live/infoboard/serverinfo"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// waitResult reads one result or fails the test after a real-time deadline.
func waitResult(t *testing.T, ch <-chan Result) Result {
	t.Helper()
	select {
	case r, ok := <-ch:
		if !ok {
			t.Fatal("results channel closed unexpectedly")
		}
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a refresh result")
	}
	return Result{}
}

// TestScheduler_RefreshesImmediatelyOnStart verifies the first refresh fires
// without waiting for the first tick.
func TestScheduler_RefreshesImmediatelyOnStart(t *testing.T) {
	mock := clock.NewMock()
	refresh := func(ctx context.Context) (serverinfo.ServerInfo, error) {
		return serverinfo.ServerInfo{ServerName: "s"}, nil
	}

	s := New(refresh, 10*time.Second, mock, testLogger())
	s.Start(context.Background())
	defer s.Stop()

	r := waitResult(t, s.Results())
	if r.Err != nil {
		t.Errorf("Result.Err = %v, want nil", r.Err)
	}
	if r.Info.ServerName != "s" {
		t.Errorf("Result.Info.ServerName = %q, want %q", r.Info.ServerName, "s")
	}
}

// TestScheduler_RefreshesOnEachTick verifies that advancing the mock clock
// by the interval triggers another refresh.
func TestScheduler_RefreshesOnEachTick(t *testing.T) {
	mock := clock.NewMock()
	var calls atomic.Int32
	refresh := func(ctx context.Context) (serverinfo.ServerInfo, error) {
		calls.Add(1)
		return serverinfo.ServerInfo{}, nil
	}

	s := New(refresh, 10*time.Second, mock, testLogger())
	s.Start(context.Background())
	defer s.Stop()

	waitResult(t, s.Results())

	// give the loop a moment to arm its ticker before advancing the clock
	time.Sleep(20 * time.Millisecond)
	mock.Add(10 * time.Second)
	waitResult(t, s.Results())

	time.Sleep(20 * time.Millisecond)
	mock.Add(10 * time.Second)
	waitResult(t, s.Results())

	if got := calls.Load(); got != 3 {
		t.Errorf("refresh calls = %d, want 3", got)
	}
}

// TestScheduler_EmitsErrors verifies that a failing refresh is reported on
// the results channel instead of being swallowed.
func TestScheduler_EmitsErrors(t *testing.T) {
	mock := clock.NewMock()
	wantErr := errors.New("request failed")
	refresh := func(ctx context.Context) (serverinfo.ServerInfo, error) {
		return serverinfo.ServerInfo{}, wantErr
	}

	s := New(refresh, time.Second, mock, testLogger())
	s.Start(context.Background())
	defer s.Stop()

	r := waitResult(t, s.Results())
	if !errors.Is(r.Err, wantErr) {
		t.Errorf("Result.Err = %v, want %v", r.Err, wantErr)
	}
}

// TestScheduler_RecoversFromPanic verifies a panicking refresh is converted
// into an error with a correlation ID and the loop keeps running.
func TestScheduler_RecoversFromPanic(t *testing.T) {
	mock := clock.NewMock()
	var calls atomic.Int32
	refresh := func(ctx context.Context) (serverinfo.ServerInfo, error) {
		if calls.Add(1) == 1 {
			panic("render exploded")
		}
		return serverinfo.ServerInfo{}, nil
	}

	s := New(refresh, 10*time.Second, mock, testLogger())
	s.Start(context.Background())
	defer s.Stop()

	r := waitResult(t, s.Results())
	if r.Err == nil {
		t.Fatal("expected error from panicking refresh")
	}
	if !strings.Contains(r.Err.Error(), "correlation_id") {
		t.Errorf("Result.Err = %v, want correlation_id in message", r.Err)
	}

	time.Sleep(20 * time.Millisecond)
	mock.Add(10 * time.Second)
	r = waitResult(t, s.Results())
	if r.Err != nil {
		t.Errorf("refresh after panic failed: %v", r.Err)
	}
}

// TestScheduler_StopClosesResults verifies Stop closes the channel and is
// idempotent, including before Start.
func TestScheduler_StopClosesResults(t *testing.T) {
	mock := clock.NewMock()
	refresh := func(ctx context.Context) (serverinfo.ServerInfo, error) {
		return serverinfo.ServerInfo{}, nil
	}

	s := New(refresh, time.Second, mock, testLogger())
	s.Start(context.Background())
	waitResult(t, s.Results())

	s.Stop()
	s.Stop()

	select {
	case _, ok := <-s.Results():
		if ok {
			// a buffered result may still be in flight; the channel must
			// close after it drains
			if _, stillOpen := <-s.Results(); stillOpen {
				t.Error("results channel still open after Stop")
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("results channel not closed after Stop")
	}
}

// TestScheduler_StopBeforeStart verifies Stop before Start is a safe no-op
// that still closes the channel.
func TestScheduler_StopBeforeStart(t *testing.T) {
	s := New(func(ctx context.Context) (serverinfo.ServerInfo, error) {
		return serverinfo.ServerInfo{}, nil
	}, time.Second, clock.NewMock(), testLogger())

	s.Stop()

	if _, ok := <-s.Results(); ok {
		t.Error("results channel open after Stop without Start")
	}

	// Start after Stop must be a no-op
	s.Start(context.Background())
}
