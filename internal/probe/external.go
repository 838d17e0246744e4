package probe

import (
	"context"
	"os/exec"
	"regexp"
	"runtime"
	"strconv"
	"time"
)

var (
	// "time=23.4 ms" (Linux/macOS), "time=23ms" and "time: 23ms" (some Windows
	// locales), plus the sub-millisecond "time<1ms" form.
	timePattern    = regexp.MustCompile(`time[=:]\s*([0-9.]+)\s*ms`)
	subMsPattern   = regexp.MustCompile(`time<\s*1\s*ms`)
	hardTimeoutPad = time.Second
)

// ExternalProber invokes the system ping command for environments without raw
// socket access. Any execution failure (missing binary, timeout, non-zero
// exit) is normalized to an unreachable sample.
type ExternalProber struct{}

// NewExternalProber returns a probe implementation that shells out to ping.
func NewExternalProber() *ExternalProber {
	return &ExternalProber{}
}

// Probe runs the system ping command once and parses the latency from its
// output. A reachable reply whose latency cannot be parsed still counts as
// reachable, with the latency left unknown.
func (p *ExternalProber) Probe(ctx context.Context, host string, timeout time.Duration) Sample {
	// The subprocess gets a small extra window over the probe timeout so a
	// hung ping cannot block the cycle indefinitely.
	runCtx, cancel := context.WithTimeout(ctx, timeout+hardTimeoutPad)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "ping", pingArgs(host, timeout)...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return Sample{Err: err}
	}

	if latency, ok := parseLatency(out); ok {
		return Sample{Reachable: true, Latency: latency, LatencyKnown: true}
	}
	return Sample{Reachable: true}
}

func pingArgs(host string, timeout time.Duration) []string {
	switch runtime.GOOS {
	case "windows":
		timeoutMs := maxInt(200, int(timeout.Milliseconds()))
		return []string{"-n", "1", "-w", strconv.Itoa(timeoutMs), host}
	case "darwin":
		timeoutMs := maxInt(100, int(timeout.Milliseconds()))
		return []string{"-n", "-c", "1", "-W", strconv.Itoa(timeoutMs), host}
	default:
		timeoutSec := maxInt(1, int(timeout.Seconds()+0.5))
		return []string{"-n", "-c", "1", "-W", strconv.Itoa(timeoutSec), host}
	}
}

func parseLatency(output []byte) (time.Duration, bool) {
	if matches := timePattern.FindSubmatch(output); len(matches) >= 2 {
		value, err := strconv.ParseFloat(string(matches[1]), 64)
		if err == nil {
			return time.Duration(value * float64(time.Millisecond)), true
		}
	}
	if subMsPattern.Match(output) {
		return time.Millisecond, true
	}
	return 0, false
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
