package notify

import "context"

// BestEffort wraps a sink so that sink failures can never mask or crash the
// failure state that triggered the notification: errors are swallowed and
// panics recovered. Boundaries always call sinks through this wrapper.
type BestEffort struct {
	sink Notifier
}

// NewBestEffort wraps sink in fire-and-forget semantics.
func NewBestEffort(sink Notifier) *BestEffort {
	return &BestEffort{sink: sink}
}

// Notify calls the wrapped sink and always returns nil.
func (b *BestEffort) Notify(ctx context.Context, n Notification) error {
	if b.sink == nil {
		return nil
	}
	defer func() {
		_ = recover()
	}()
	_ = b.sink.Notify(ctx, n)
	return nil
}

// Name returns the wrapped sink's name.
func (b *BestEffort) Name() string {
	if b.sink == nil {
		return "none"
	}
	return b.sink.Name()
}
