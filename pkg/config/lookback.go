package config

import "time"

// LookbackRequest carries every input of a realtime window computation.
type LookbackRequest struct {
	// Reference is the wall-clock time the window is computed from.
	Reference time.Time

	// LookBack is how far back from the latest cycle to process, in minutes.
	LookBack int

	// Shift delays the latest cycle to allow for upstream data latency, in minutes.
	Shift int

	// Frequency is the forecast cycle cadence in minutes.
	Frequency int
}

// LookbackFunc computes the realtime processing window. Implementations must
// be pure: identical requests yield identical windows.
type LookbackFunc func(req LookbackRequest) (begin, end time.Time)

// CalculateLookbackWindow is the default LookbackFunc. The reference time is
// truncated to the minute in UTC, the most recent forecast cycle since
// midnight is found, and the window ends Shift minutes before that cycle and
// begins LookBack minutes before its end.
func CalculateLookbackWindow(req LookbackRequest) (begin, end time.Time) {
	ref := req.Reference.UTC().Truncate(time.Minute)
	midnight := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)

	cycle := midnight
	if req.Frequency > 0 {
		sinceMidnight := int(ref.Sub(midnight) / time.Minute)
		cycle = midnight.Add(time.Duration(sinceMidnight/req.Frequency*req.Frequency) * time.Minute)
	}

	end = cycle.Add(-time.Duration(req.Shift) * time.Minute)
	begin = end.Add(-time.Duration(req.LookBack) * time.Minute)
	return begin, end
}
