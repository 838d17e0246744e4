package health

import "time"

// TargetState is the persistent per-host debounce state. It is loaded from the
// state store at startup and written back after every cycle, so consecutive
// failure counting survives process restarts.
type TargetState struct {
	Status      Status
	Failures    int
	LastSeen    *time.Time
	LastAlertAt *time.Time
}

// Transition records an effective status change.
type Transition struct {
	From Status
	To   Status
}

// Advance folds one cycle's raw classification into the prior state and
// reports whether an effective transition occurred and whether an alert
// dispatch is due.
//
// A raw DOWN is damped to DEGRADED until failThreshold consecutive failures
// have accumulated, so isolated packet loss shows up as degradation rather
// than an outage. A transition is only reported when the prior status is not
// UNKNOWN; a target's first-observed cycle never alerts. Alert dispatch is
// additionally gated by the per-host cooldown, compared with >= so a cooldown
// of exactly N permits a dispatch at the N boundary. A nil LastAlertAt always
// satisfies the cooldown.
func Advance(prior TargetState, raw Status, reachable bool, now time.Time, failThreshold int, cooldown time.Duration) (TargetState, *Transition, bool) {
	priorStatus := prior.Status
	if priorStatus == "" {
		priorStatus = StatusUnknown
	}

	next := prior
	if reachable {
		next.Failures = 0
		seen := now
		next.LastSeen = &seen
	} else {
		next.Failures = prior.Failures + 1
	}

	effective := raw
	if raw == StatusDown && next.Failures < failThreshold {
		effective = StatusDegraded
	}
	next.Status = effective

	var transition *Transition
	if effective != priorStatus && priorStatus != StatusUnknown {
		transition = &Transition{From: priorStatus, To: effective}
	}

	alertDue := false
	if transition != nil && cooldownSatisfied(prior.LastAlertAt, now, cooldown) {
		alertDue = true
		alerted := now
		next.LastAlertAt = &alerted
	}

	return next, transition, alertDue
}

func cooldownSatisfied(lastAlertAt *time.Time, now time.Time, cooldown time.Duration) bool {
	if lastAlertAt == nil {
		return true
	}
	return now.Sub(*lastAlertAt) >= cooldown
}
