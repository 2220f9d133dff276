package timeparse

import "time"

// AdjustFinish corrects finish timestamps for runs that cross midnight: a
// finish earlier than its start on the same reference day is reinterpreted
// as next-day. Either side being nil leaves the finish untouched.
func AdjustFinish(start, finish *time.Time) *time.Time {
	if start == nil || finish == nil {
		return finish
	}
	if finish.Before(*start) {
		adjusted := finish.Add(24 * time.Hour)
		return &adjusted
	}
	return finish
}

// DurationMinutes returns the elapsed whole minutes between start and finish,
// clamped to a minimum of zero. Missing endpoints yield zero.
func DurationMinutes(start, finish *time.Time) int {
	if start == nil || finish == nil {
		return 0
	}
	minutes := int(finish.Sub(*start).Seconds()) / 60
	if minutes < 0 {
		return 0
	}
	return minutes
}
