package notify

import "context"

// Notifier delivers one outbound message. Implementations are best-effort:
// callers never branch on the outcome and no failure propagates.
type Notifier interface {
	Notify(ctx context.Context, text string)
}

// Nop discards every message. Used when alerting is disabled or
// unconfigured.
type Nop struct{}

// Notify does nothing.
func (Nop) Notify(context.Context, string) {}
