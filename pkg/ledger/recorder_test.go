package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"hydroforce/forcing/internal/forcingtest"
	"hydroforce/forcing/pkg/config"
)

// sliceStorage is a minimal Storage for recorder tests.
type sliceStorage struct {
	mu      sync.Mutex
	records []*Record
	err     error
}

func (s *sliceStorage) Store(_ context.Context, r *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, r)
	return nil
}
func (s *sliceStorage) Query(context.Context, *Query) ([]*Record, error) { return s.records, nil }
func (s *sliceStorage) Count(context.Context, *Query) (int64, error) {
	return int64(len(s.records)), nil
}
func (s *sliceStorage) Delete(context.Context, *Query) (int64, error) { return 0, nil }
func (s *sliceStorage) Ping(context.Context) error                    { return nil }
func (s *sliceStorage) Close() error                                  { return nil }

var at = time.Date(2020, 1, 1, 13, 47, 0, 0, time.UTC)

// TestRecorder_Failure tests recording a failed resolution.
func TestRecorder_Failure(t *testing.T) {
	store := &sliceStorage{}
	rec := NewRecorder(store, &RecorderConfig{Now: func() time.Time { return at }})

	src := config.MapSource("broken.config", map[string]map[string]string{})
	_, resolveErr := config.NewResolver(config.ResolverConfig{}).Resolve(context.Background(), src)
	if resolveErr == nil {
		t.Fatal("Expected resolution of an empty source to fail")
	}

	record, err := rec.Record(context.Background(), Entry{
		Trigger:    "validate",
		ConfigPath: "broken.config",
		Err:        resolveErr,
		Duration:   time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Record() failed: %v", err)
	}

	if _, err := uuid.Parse(record.ID); err != nil {
		t.Errorf("Expected a UUID record ID, got %q", record.ID)
	}
	if record.Outcome != OutcomeFailure {
		t.Errorf("Expected outcome %s, got %s", OutcomeFailure, record.Outcome)
	}
	if record.ErrorKind != config.KindMissingKey.String() {
		t.Errorf("Expected error kind %s, got %s", config.KindMissingKey, record.ErrorKind)
	}
	if record.ErrorField != "Input.InputForcings" {
		t.Errorf("Expected error field Input.InputForcings, got %s", record.ErrorField)
	}
	if !record.RecordedAt.Equal(at) {
		t.Errorf("Expected RecordedAt %v, got %v", at, record.RecordedAt)
	}
	if len(store.records) != 1 {
		t.Errorf("Expected 1 stored record, got %d", len(store.records))
	}
}

// TestRecorder_StoreError tests that storage failures are returned.
func TestRecorder_StoreError(t *testing.T) {
	store := &sliceStorage{err: errors.New("read-only")}
	rec := NewRecorder(store, nil)

	if _, err := rec.Record(context.Background(), Entry{Trigger: "validate", Err: fmt.Errorf("boom")}); err == nil {
		t.Error("Expected Record() to fail")
	}
}

// TestNewRecord_Success tests the fields copied from a resolved configuration.
func TestNewRecord_Success(t *testing.T) {
	f := forcingtest.NewFixture(t, 1)
	sections := f.Retrospective()
	sections[config.SectionRetrospective]["BDateProc"] = config.Sentinel
	sections[config.SectionRetrospective]["EDateProc"] = config.Sentinel
	cfg := forcingtest.Resolve(t, sections)
	record := NewRecord(Entry{Trigger: "watch", ConfigPath: "ok.config", Config: cfg}, at)

	if record.Outcome != OutcomeSuccess || record.Mode != "retrospective" {
		t.Errorf("Unexpected record %+v", record)
	}
	if record.WindowBegin != config.Sentinel || record.NumOutputSteps != 0 || record.NumInputs != 1 {
		t.Errorf("Unexpected window fields %+v", record)
	}
	if record.ErrorKind != "" {
		t.Errorf("Expected no error kind, got %s", record.ErrorKind)
	}

	rows := Records{record}.Rows()
	if len(rows) != 1 || len(rows[0]) != len(record.Header()) {
		t.Errorf("Expected one row matching the header, got %v", rows)
	}
}

// TestValidateQuery tests query validation.
func TestValidateQuery(t *testing.T) {
	early, late := at, at.Add(time.Hour)
	tests := []struct {
		name    string
		query   *Query
		wantErr bool
	}{
		{name: "empty", query: &Query{}},
		{name: "nil", query: nil, wantErr: true},
		{name: "negative limit", query: &Query{Limit: -1}, wantErr: true},
		{name: "limit too large", query: &Query{Limit: MaxLimit + 1}, wantErr: true},
		{name: "negative offset", query: &Query{Offset: -1}, wantErr: true},
		{name: "bad sort", query: &Query{SortOrder: "up"}, wantErr: true},
		{name: "upper case sort", query: &Query{SortOrder: "ASC"}},
		{name: "inverted range", query: &Query{Since: &late, Until: &early}, wantErr: true},
		{name: "bad outcome", query: &Query{Outcome: "maybe"}, wantErr: true},
		{name: "valid range", query: &Query{Since: &early, Until: &late, Outcome: OutcomeSuccess}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuery(tt.query)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateQuery() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
