package backup

import "time"

// TimeGrid returns floor(duration/step)+1 evenly spaced instants starting
// at start. Both durations must be positive.
func TimeGrid(start time.Time, duration, step time.Duration) []time.Time {
	n := int(duration/step) + 1
	times := make([]time.Time, n)
	for i := range times {
		times[i] = start.Add(time.Duration(i) * step)
	}
	return times
}
