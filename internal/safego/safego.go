// Package safego provides a panic-recovering goroutine launcher for
// background work.
package safego

import "log/slog"

// Go launches fn in a new goroutine identified by name. If fn panics, the
// panic is recovered and logged rather than crashing the process. Use it for
// fire-and-forget goroutines (the metrics listener, pool stats collection)
// where an unrecovered panic would silently kill the goroutine forever.
func Go(name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("recovered panic in background goroutine", "goroutine", name, "panic", r)
			}
		}()
		fn()
	}()
}
