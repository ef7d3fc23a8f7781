package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema creates the ledger tables. Timestamps are Unix nanoseconds and
// durations are nanoseconds so both SQLite drivers round-trip them exactly.
const Schema = `
CREATE TABLE IF NOT EXISTS resolutions (
    id TEXT PRIMARY KEY,
    recorded_at INTEGER NOT NULL,
    trigger_name TEXT NOT NULL,
    config_path TEXT NOT NULL,

    outcome TEXT NOT NULL,
    mode TEXT,

    error_kind TEXT,
    error_field TEXT,
    error TEXT,

    window_begin TEXT,
    window_end TEXT,
    num_output_steps INTEGER NOT NULL DEFAULT 0,
    num_forecasts INTEGER NOT NULL DEFAULT 0,
    num_inputs INTEGER NOT NULL DEFAULT 0,

    duration_ns INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_resolutions_recorded_at ON resolutions(recorded_at);
CREATE INDEX IF NOT EXISTS idx_resolutions_config_path ON resolutions(config_path);
CREATE INDEX IF NOT EXISTS idx_resolutions_outcome ON resolutions(outcome);
`

// InsertSchemaVersion records the schema version once.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`

const insertRecord = `
INSERT INTO resolutions (
    id, recorded_at, trigger_name, config_path,
    outcome, mode,
    error_kind, error_field, error,
    window_begin, window_end, num_output_steps, num_forecasts, num_inputs,
    duration_ns
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const selectColumns = `id, recorded_at, trigger_name, config_path, outcome, mode,
    error_kind, error_field, error,
    window_begin, window_end, num_output_steps, num_forecasts, num_inputs,
    duration_ns`
