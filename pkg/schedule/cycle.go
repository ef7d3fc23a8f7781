package schedule

import (
	"fmt"
	"time"

	"hydroforce/forcing/pkg/config"
)

// CycleSchedule fires at every forecast cycle boundary: midnight UTC plus
// whole multiples of Frequency, restarting at each midnight. These are the
// instants at which the realtime lookback window moves.
//
// CycleSchedule implements cron.Schedule.
type CycleSchedule struct {
	// Frequency is the forecast cycle cadence in minutes.
	Frequency int

	// Delay postpones each activation past the boundary, giving upstream
	// data a moment to land.
	Delay time.Duration
}

// NewCycleSchedule returns the schedule for a resolved realtime
// configuration. It fails for the other run modes, whose window does not
// depend on the clock.
func NewCycleSchedule(cfg *config.Config, delay time.Duration) (CycleSchedule, error) {
	if cfg.Mode() != config.ModeRealtime {
		return CycleSchedule{}, fmt.Errorf("cycle schedule requires realtime mode, got %s", cfg.Mode())
	}
	if cfg.ForecastFrequency() <= 0 {
		return CycleSchedule{}, fmt.Errorf("invalid forecast frequency %d", cfg.ForecastFrequency())
	}
	return CycleSchedule{Frequency: cfg.ForecastFrequency(), Delay: delay}, nil
}

// Next returns the first activation strictly after t.
func (s CycleSchedule) Next(t time.Time) time.Time {
	if s.Frequency <= 0 {
		return time.Time{}
	}
	boundary := s.nextBoundary(t.Add(-s.Delay))
	return boundary.Add(s.Delay).In(t.Location())
}

// nextBoundary returns the first cycle boundary strictly after t.
func (s CycleSchedule) nextBoundary(t time.Time) time.Time {
	utc := t.UTC()
	midnight := time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
	step := time.Duration(s.Frequency) * time.Minute

	k := utc.Sub(midnight)/step + 1
	next := midnight.Add(k * step)
	if tomorrow := midnight.AddDate(0, 0, 1); !next.Before(tomorrow) {
		return tomorrow
	}
	return next
}
