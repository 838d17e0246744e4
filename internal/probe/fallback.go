package probe

import (
	"context"
	"errors"
	"os"
	"strings"
	"syscall"
	"time"
)

// FallbackProber delegates to primary, then secondary when permission errors
// occur. Raw ICMP sockets usually need elevated privileges; the external ping
// binary does not.
type FallbackProber struct {
	primary   Prober
	secondary Prober
}

// NewFallbackProber wraps primary with a secondary fallback.
func NewFallbackProber(primary, secondary Prober) *FallbackProber {
	return &FallbackProber{primary: primary, secondary: secondary}
}

// Probe uses the primary prober and falls back on permission-related errors.
func (p *FallbackProber) Probe(ctx context.Context, host string, timeout time.Duration) Sample {
	sample := p.primary.Probe(ctx, host, timeout)
	if sample.Reachable || !isPermissionError(sample.Err) {
		return sample
	}
	return p.secondary.Probe(ctx, host, timeout)
}

func isPermissionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, os.ErrPermission) || errors.Is(err, syscall.EPERM) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "operation not permitted") || strings.Contains(msg, "permission denied")
}
