package notify

import (
	"context"
	"sync"
)

// Multi wraps multiple sinks and fans out to all of them.
type Multi struct {
	sinks []Notifier
}

// NewMulti creates a Multi sink that sends to all provided backends.
func NewMulti(sinks ...Notifier) *Multi {
	return &Multi{sinks: sinks}
}

// Notify sends the notification to all backends concurrently.
// Returns the first error encountered, but continues sending to all.
func (m *Multi) Notify(ctx context.Context, n Notification) error {
	if len(m.sinks) == 0 {
		return nil
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for _, sink := range m.sinks {
		wg.Add(1)
		go func(sink Notifier) {
			defer wg.Done()
			if err := sink.Notify(ctx, n); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}(sink)
	}

	wg.Wait()
	return firstErr
}

// Name returns "multi".
func (m *Multi) Name() string {
	return "multi"
}
