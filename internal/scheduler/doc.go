// Package scheduler drives the periodic refresh cycle of the info page.
//
// The scheduler runs one refresh immediately on start and then one per tick
// of a configurable interval. Ticks come from a clock.Clock so tests can
// drive the loop deterministically with a mock clock.
package scheduler
