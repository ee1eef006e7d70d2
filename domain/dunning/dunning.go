// Package dunning provides the payment retry and grace-period state
// machine. Given a customer's payment failure history and a retry policy
// it computes retry dates, grace boundaries, and warning eligibility.
// All functions are deterministic; the current time is always an explicit
// parameter.
package dunning

import (
	"math"
	"time"

	"github.com/artpar/billgate/domain/payment"
)

// RetryConfig is the retry policy supplied by the caller.
// Not an entity: callers own it and pass it to every computation.
type RetryConfig struct {
	MaxAttempts     int
	GracePeriodDays int
	RetryIntervals  []int // day offsets from the first failure, per attempt
	WarningDays     []int // grace days-remaining thresholds that trigger a warning
}

// DefaultRetryConfig returns the documented default policy: four attempts
// at 1, 3, 5, and 7 days after the first failure, a 7-day grace period,
// and warnings at 3 days and 1 day remaining.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:     4,
		GracePeriodDays: 7,
		RetryIntervals:  []int{1, 3, 5, 7},
		WarningDays:     []int{3, 1},
	}
}

// NextRetryDate returns when the given attempt should run, measured from
// the first failure. ok is false once the attempt number reaches the
// policy's maximum or exhausts the interval schedule.
// This is a PURE function.
func NextRetryDate(firstFailureAt time.Time, attempt int, cfg RetryConfig) (time.Time, bool) {
	if attempt < 0 || attempt >= cfg.MaxAttempts || attempt >= len(cfg.RetryIntervals) {
		return time.Time{}, false
	}
	return firstFailureAt.AddDate(0, 0, cfg.RetryIntervals[attempt]), true
}

// GraceEndDate returns when the grace period ends.
// This is a PURE function.
func GraceEndDate(firstFailureAt time.Time, gracePeriodDays int) time.Time {
	return firstFailureAt.AddDate(0, 0, gracePeriodDays)
}

// IsGracePeriodExpired reports whether now has reached the grace boundary.
// The flip happens exactly at firstFailureAt + gracePeriodDays.
// This is a PURE function.
func IsGracePeriodExpired(firstFailureAt time.Time, gracePeriodDays int, now time.Time) bool {
	return !now.Before(GraceEndDate(firstFailureAt, gracePeriodDays))
}

// GraceDaysRemaining returns the whole days left in the grace period,
// rounding partial days up and flooring at zero.
// This is a PURE function.
func GraceDaysRemaining(firstFailureAt time.Time, gracePeriodDays int, now time.Time) int {
	end := GraceEndDate(firstFailureAt, gracePeriodDays)
	if !now.Before(end) {
		return 0
	}
	return int(math.Ceil(end.Sub(now).Hours() / 24))
}

// ShouldSendGraceWarning reports whether a warning notification is due for
// the given days-remaining value. A warning fires at most once per
// configured threshold; alreadySent holds thresholds already notified.
// This is a PURE function.
func ShouldSendGraceWarning(daysRemaining int, cfg RetryConfig, alreadySent []int) bool {
	configured := false
	for _, d := range cfg.WarningDays {
		if d == daysRemaining {
			configured = true
			break
		}
	}
	if !configured {
		return false
	}
	for _, d := range alreadySent {
		if d == daysRemaining {
			return false
		}
	}
	return true
}

// RetryState describes the current position in the retry/grace machine
// for one customer or subscription.
type RetryState struct {
	AttemptNumber      int // count of consecutive failures in the trailing streak
	FirstFailureAt     time.Time
	LastFailureAt      time.Time
	NextRetryAt        *time.Time
	MaxRetriesReached  bool
	GraceExpired       bool
	GraceDaysRemaining int
}

// GetRetryState derives the retry state from a payment history.
// Only the trailing streak of consecutive failed payments counts: a
// success resets the machine. Returns nil when there is no active streak,
// which is the valid "nothing to compute" condition rather than an error.
// This is a PURE function.
func GetRetryState(payments []payment.Payment, cfg RetryConfig, now time.Time) *RetryState {
	ordered := payment.SortedByCreation(payments)

	// Walk back from the most recent payment collecting the failure streak.
	var streak []payment.Payment
	for i := len(ordered) - 1; i >= 0; i-- {
		p := ordered[i]
		if p.Status == payment.StatusPending {
			continue
		}
		if !p.IsFailed() {
			break
		}
		streak = append([]payment.Payment{p}, streak...)
	}
	if len(streak) == 0 {
		return nil
	}

	first := streak[0].CreatedAt

	// The first failure is not itself a retry: with one failure recorded
	// the next retry is attempt index 0.
	retriesDone := len(streak) - 1

	state := &RetryState{
		AttemptNumber:      len(streak),
		FirstFailureAt:     first,
		LastFailureAt:      streak[len(streak)-1].CreatedAt,
		GraceExpired:       IsGracePeriodExpired(first, cfg.GracePeriodDays, now),
		GraceDaysRemaining: GraceDaysRemaining(first, cfg.GracePeriodDays, now),
	}

	if next, ok := NextRetryDate(first, retriesDone, cfg); ok {
		state.NextRetryAt = &next
	} else {
		state.MaxRetriesReached = true
	}

	return state
}
