package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"hydroforce/forcing/pkg/ledger"
)

// SQLite driver names.
const (
	// DriverSQLite is the pure-Go modernc.org/sqlite driver.
	DriverSQLite = "sqlite"

	// DriverSQLite3 is the cgo github.com/mattn/go-sqlite3 driver.
	DriverSQLite3 = "sqlite3"
)

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Driver is DriverSQLite or DriverSQLite3. Default: DriverSQLite.
	Driver string

	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 4
	MaxOpenConns int

	// WALMode enables Write-Ahead Logging so history can be read while
	// watch is writing.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Driver:       DriverSQLite,
		Path:         "forcing-ledger.db",
		MaxOpenConns: 4,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStorage implements ledger.Storage on SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage opens the database and creates the schema if needed.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	if config.Driver == "" {
		config.Driver = DriverSQLite
	}
	if config.Driver != DriverSQLite && config.Driver != DriverSQLite3 {
		return nil, ledger.NewStorageError(config.Driver, "open", fmt.Errorf("unsupported driver %q", config.Driver))
	}
	if config.MaxOpenConns <= 0 {
		config.MaxOpenConns = 4
	}

	logger := slog.Default().With("component", "ledger.storage.sqlite", "driver", config.Driver)

	db, err := sql.Open(config.Driver, config.Path)
	if err != nil {
		return nil, ledger.NewStorageError(config.Driver, "open", err)
	}
	db.SetMaxOpenConns(config.MaxOpenConns)

	s := &SQLiteStorage{db: db, config: config, logger: logger}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug("SQLite ledger initialized", "path", config.Path, "wal_mode", config.WALMode)
	return s, nil
}

func (s *SQLiteStorage) storageError(op string, err error) error {
	return ledger.NewStorageError(s.config.Driver, op, err)
}

// initialize sets pragmas, creates the schema and checks its version.
func (s *SQLiteStorage) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return s.storageError("enable_wal", err)
		}
	}

	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds())); err != nil {
		return s.storageError("set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return s.storageError("create_schema", err)
	}
	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return s.storageError("insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return s.storageError("get_schema_version", err)
	}
	if version != SchemaVersion {
		return s.storageError("schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}
	return nil
}

// Store persists a record.
func (s *SQLiteStorage) Store(ctx context.Context, record *ledger.Record) error {
	_, err := s.db.ExecContext(ctx, insertRecord,
		record.ID, record.RecordedAt.UnixNano(), record.Trigger, record.ConfigPath,
		record.Outcome, nullable(record.Mode),
		nullable(record.ErrorKind), nullable(record.ErrorField), nullable(record.Error),
		nullable(record.WindowBegin), nullable(record.WindowEnd),
		record.NumOutputSteps, record.NumForecasts, record.NumInputs,
		int64(record.Duration),
	)
	if err != nil {
		return s.storageError("store", err)
	}
	return nil
}

// Query retrieves records matching the query filters.
func (s *SQLiteStorage) Query(ctx context.Context, query *ledger.Query) ([]*ledger.Record, error) {
	if err := ledger.ValidateQuery(query); err != nil {
		return nil, err
	}
	where, args := buildWhereClause(query)

	sqlQuery := "SELECT " + selectColumns + " FROM resolutions" + where
	order := "DESC"
	if query.Ascending() {
		order = "ASC"
	}
	sqlQuery += fmt.Sprintf(" ORDER BY recorded_at %s, id %s LIMIT %d", order, order, query.EffectiveLimit())
	if query.Offset > 0 {
		sqlQuery += fmt.Sprintf(" OFFSET %d", query.Offset)
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, s.storageError("query", err)
	}
	defer rows.Close()

	records := []*ledger.Record{}
	for rows.Next() {
		record, err := scanRow(rows)
		if err != nil {
			return nil, s.storageError("scan", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, s.storageError("query", err)
	}
	return records, nil
}

// Count returns the number of matching records.
func (s *SQLiteStorage) Count(ctx context.Context, query *ledger.Query) (int64, error) {
	where, args := buildWhereClause(query)

	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM resolutions"+where, args...).Scan(&count); err != nil {
		return 0, s.storageError("count", err)
	}
	return count, nil
}

// Delete removes matching records.
func (s *SQLiteStorage) Delete(ctx context.Context, query *ledger.Query) (int64, error) {
	where, args := buildWhereClause(query)

	result, err := s.db.ExecContext(ctx, "DELETE FROM resolutions"+where, args...)
	if err != nil {
		return 0, s.storageError("delete", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, s.storageError("delete", err)
	}
	return count, nil
}

// Ping checks the database connection.
func (s *SQLiteStorage) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return s.storageError("ping", err)
	}
	return nil
}

// Close releases the database.
func (s *SQLiteStorage) Close() error {
	if err := s.db.Close(); err != nil {
		return s.storageError("close", err)
	}
	return nil
}

// buildWhereClause returns " WHERE ..." (or "") and its arguments.
func buildWhereClause(query *ledger.Query) (string, []any) {
	if query == nil {
		return "", nil
	}

	var conditions []string
	var args []any

	if query.Since != nil {
		conditions = append(conditions, "recorded_at >= ?")
		args = append(args, query.Since.UnixNano())
	}
	if query.Until != nil {
		conditions = append(conditions, "recorded_at <= ?")
		args = append(args, query.Until.UnixNano())
	}
	if query.ConfigPath != "" {
		conditions = append(conditions, "config_path = ?")
		args = append(args, query.ConfigPath)
	}
	if query.Mode != "" {
		conditions = append(conditions, "mode = ?")
		args = append(args, query.Mode)
	}
	if query.Outcome != "" {
		conditions = append(conditions, "outcome = ?")
		args = append(args, query.Outcome)
	}
	if query.Trigger != "" {
		conditions = append(conditions, "trigger_name = ?")
		args = append(args, query.Trigger)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// scanRow scans a row in selectColumns order.
func scanRow(rows *sql.Rows) (*ledger.Record, error) {
	var record ledger.Record
	var recordedAt, durationNs int64
	var mode, errorKind, errorField, errText, begin, end sql.NullString

	err := rows.Scan(
		&record.ID, &recordedAt, &record.Trigger, &record.ConfigPath,
		&record.Outcome, &mode,
		&errorKind, &errorField, &errText,
		&begin, &end, &record.NumOutputSteps, &record.NumForecasts, &record.NumInputs,
		&durationNs,
	)
	if err != nil {
		return nil, err
	}

	record.RecordedAt = time.Unix(0, recordedAt).UTC()
	record.Duration = time.Duration(durationNs)
	record.Mode = mode.String
	record.ErrorKind = errorKind.String
	record.ErrorField = errorField.String
	record.Error = errText.String
	record.WindowBegin = begin.String
	record.WindowEnd = end.String
	return &record, nil
}

// nullable stores empty optional strings as NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
