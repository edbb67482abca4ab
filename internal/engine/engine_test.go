package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/meridianhq/meridian/pkg/adapter"
)

// fakeWarehouse is an in-memory adapter.Adapter for engine tests.
type fakeWarehouse struct {
	mu     sync.Mutex
	tables map[string]map[adapter.RowKey]adapter.IndicatorRow
	execs  []string

	connectErr error
	execErrFor string // substring match on the statement
	execErr    error
}

func newFakeWarehouse() *fakeWarehouse {
	return &fakeWarehouse{tables: make(map[string]map[adapter.RowKey]adapter.IndicatorRow)}
}

// registerFake registers the fake under a name unique to the test.
func registerFake(t *testing.T, fw *fakeWarehouse) string {
	t.Helper()
	name := "fake_" + strings.ReplaceAll(t.Name(), "/", "_")
	adapter.Register(name, func(*slog.Logger) adapter.Adapter { return fw })
	return name
}

func (f *fakeWarehouse) Connect(context.Context, adapter.Config) error { return f.connectErr }
func (f *fakeWarehouse) Close() error                                  { return nil }

func (f *fakeWarehouse) Exec(_ context.Context, stmt string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.execs = append(f.execs, stmt)
	if f.execErr != nil && strings.Contains(stmt, f.execErrFor) {
		return f.execErr
	}
	return nil
}

func (f *fakeWarehouse) Query(context.Context, string) (*sql.Rows, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeWarehouse) TableExists(_ context.Context, table string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.tables[table]
	return ok, nil
}

func (f *fakeWarehouse) MaxInt(_ context.Context, table, _ string) (int64, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows, ok := f.tables[table]
	if !ok || len(rows) == 0 {
		return 0, false, nil
	}
	var max int64
	for key := range rows {
		if int64(key.Year) > max {
			max = int64(key.Year)
		}
	}
	return max, true, nil
}

func (f *fakeWarehouse) Insert(_ context.Context, table string, rows []adapter.IndicatorRow) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(rows) == 0 {
		return 0, nil
	}
	existing := f.tables[table]
	if existing == nil {
		existing = make(map[adapter.RowKey]adapter.IndicatorRow)
		f.tables[table] = existing
	}
	for _, row := range rows {
		if _, dup := existing[row.Key()]; dup {
			return 0, &adapter.ConstraintError{Table: table, Err: fmt.Errorf("duplicate key %v", row.Key())}
		}
	}
	for _, row := range rows {
		existing[row.Key()] = row
	}
	return int64(len(rows)), nil
}

func (f *fakeWarehouse) Upsert(_ context.Context, table string, rows []adapter.IndicatorRow) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(rows) == 0 {
		return 0, nil
	}
	existing := f.tables[table]
	if existing == nil {
		existing = make(map[adapter.RowKey]adapter.IndicatorRow)
		f.tables[table] = existing
	}
	for _, row := range rows {
		existing[row.Key()] = row
	}
	return int64(len(rows)), nil
}

func (f *fakeWarehouse) Overwrite(_ context.Context, table string, rows []adapter.IndicatorRow) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(rows) == 0 {
		return 0, nil
	}
	fresh := make(map[adapter.RowKey]adapter.IndicatorRow, len(rows))
	for _, row := range rows {
		fresh[row.Key()] = row
	}
	f.tables[table] = fresh
	return int64(len(rows)), nil
}

func (f *fakeWarehouse) rowCount(table string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tables[table])
}

func (f *fakeWarehouse) seed(table string, rows ...adapter.IndicatorRow) {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing := f.tables[table]
	if existing == nil {
		existing = make(map[adapter.RowKey]adapter.IndicatorRow)
		f.tables[table] = existing
	}
	for _, row := range rows {
		existing[row.Key()] = row
	}
}

var _ adapter.Adapter = (*fakeWarehouse)(nil)
