// Package health provides liveness and readiness probes for the watch
// command.
//
// Readiness aggregates named checks: whether a configuration has been
// resolved, whether its directories and geogrid file still exist, and whether
// the run ledger answers.
//
//	checker := health.New(5 * time.Second)
//	checker.RegisterCheck("config", health.ConfigCheck(config.GetConfig))
//	health.Register(mux, checker, version, commit, buildTime)
package health
