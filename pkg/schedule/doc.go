// Package schedule re-resolves realtime configurations as forecast cycles
// advance.
//
// In realtime mode the processing window is derived from the wall clock, so
// it moves every ForecastFrequency minutes. CycleSchedule is a cron.Schedule
// that fires exactly at those boundaries; Scheduler runs a job on it using
// robfig/cron.
package schedule
