// Package retention prunes old ledger records.
//
// A Pruner deletes records older than the configured number of days; a
// Scheduler runs it on a cron expression from the [Runtime] section
// (LedgerPruneSchedule, default "0 3 * * *").
package retention
