// Package storage provides ledger backends.
//
// SQLiteStorage works with either SQLite driver: "sqlite" (modernc.org/sqlite,
// pure Go, the default) or "sqlite3" (github.com/mattn/go-sqlite3, cgo).
// MemoryStorage keeps records for the life of the process and suits tests
// and one-shot commands that should leave no file behind.
package storage
