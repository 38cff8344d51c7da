package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/srb2live/infoboard"
)

func main() {
	// start a mock server-info feed (see mock_feed.go)
	go StartMockFeed(":9999")
	time.Sleep(100 * time.Millisecond)

	ib, err := infoboard.New(
		infoboard.WithAPIURL("http://localhost:9999"),
		infoboard.WithTitle("SRB2 Live Demo"),
		infoboard.WithRefreshInterval(5*time.Second),
		infoboard.WithPort(8080),
		infoboard.WithRefreshCallback(func(r infoboard.RefreshResult) {
			if r.Err != nil {
				slog.Warn("refresh failed", "error", r.Err)
			}
		}),
	)
	if err != nil {
		slog.Error("failed to create infoboard", "error", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("  ╔═══════════════════════════════════════════════════════╗")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   infoboard Demo                                      ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Open http://localhost:8080 in your browser          ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   The mock feed rotates maps and players every        ║")
	fmt.Println("  ║   ~30 seconds; the page follows along live.           ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Press Ctrl+C to stop                                ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ╚═══════════════════════════════════════════════════════╝")
	fmt.Println()

	// set up context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := ib.Start(ctx); err != nil {
		slog.Error("infoboard error", "error", err)
		os.Exit(1)
	}
}
