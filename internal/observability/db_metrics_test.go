package observability

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveDBRecordsSuccess(t *testing.T) {
	p := NewProm(prometheus.NewRegistry())

	err := p.ObserveDB("employees.list", func() error { return nil })

	if err != nil {
		t.Fatalf("ObserveDB returned %v", err)
	}

	if got := testutil.CollectAndCount(p.DbQueryDuration); got != 1 {
		t.Errorf("duration series = %d, want 1", got)
	}

	if got := testutil.CollectAndCount(p.DbErrorsTotal); got != 0 {
		t.Errorf("error series = %d, want 0", got)
	}
}

func TestObserveDBRecordsErrorWithCause(t *testing.T) {
	p := NewProm(prometheus.NewRegistry())

	wantErr := &pgconn.PgError{Code: "23505"}

	err := p.ObserveDB("users.create", func() error { return wantErr })

	if !errors.Is(err, wantErr) {
		t.Fatalf("ObserveDB must pass the error through, got %v", err)
	}

	got := testutil.ToFloat64(p.DbErrorsTotal.WithLabelValues("users.create", "unique_violation"))

	if got != 1 {
		t.Errorf("error counter = %v, want 1", got)
	}
}

func TestClassifyDBErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"unique violation", &pgconn.PgError{Code: "23505"}, "unique_violation"},
		{"fk violation", &pgconn.PgError{Code: "23503"}, "fk_violation"},
		{"canceled query", &pgconn.PgError{Code: "57014"}, "query_canceled"},
		{"other pg code", &pgconn.PgError{Code: "42703"}, "pg_42703"},
		{"domain not found", errors.New("employee not found"), "not_found"},
		{"deadline", errors.New("context deadline exceeded"), "timeout"},
		{"connection", errors.New("connection refused"), "connection"},
		{"anything else", errors.New("boom"), "unknown"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := classifyDBErr(tc.err); got != tc.want {
				t.Errorf("classifyDBErr = %q, want %q", got, tc.want)
			}
		})
	}
}
