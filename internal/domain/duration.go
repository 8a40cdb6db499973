package domain

import "time"

// PauseInterval is a span inside a duty session that does not count as
// worked time. End is nil while the pause is still open.
type PauseInterval struct {
	Start time.Time
	End   *time.Time
}

// IsOpen reports whether the pause has not been closed yet.
func (p PauseInterval) IsOpen() bool {
	return p.End == nil
}

// ComputeActiveSeconds returns the whole seconds between start and end that
// are not covered by a pause. Each pause is clipped to [start, end] on its
// own and the clipped lengths are summed; overlapping pauses are therefore
// subtracted twice and are expected to be rejected upstream. An open pause
// counts as running until end. The result is never negative.
func ComputeActiveSeconds(start, end time.Time, pauses []PauseInterval) int64 {
	if !end.After(start) {
		return 0
	}
	active := end.Sub(start) - pausedDuration(start, end, pauses)
	if active <= 0 {
		return 0
	}
	return int64(active / time.Second)
}

// PausedSeconds returns the whole seconds of [start, end] covered by pauses,
// using the same clipping rule as ComputeActiveSeconds.
func PausedSeconds(start, end time.Time, pauses []PauseInterval) int64 {
	if !end.After(start) {
		return 0
	}
	return int64(pausedDuration(start, end, pauses) / time.Second)
}

func pausedDuration(start, end time.Time, pauses []PauseInterval) time.Duration {
	var total time.Duration
	for _, p := range pauses {
		total += clippedPause(start, end, p)
	}
	return total
}

// clippedPause returns min(p.End or end, end) - max(p.Start, start), floored at zero.
func clippedPause(start, end time.Time, p PauseInterval) time.Duration {
	from := p.Start
	if from.Before(start) {
		from = start
	}
	to := end
	if p.End != nil && p.End.Before(end) {
		to = *p.End
	}
	if !to.After(from) {
		return 0
	}
	return to.Sub(from)
}
