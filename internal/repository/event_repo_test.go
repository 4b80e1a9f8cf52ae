package repository

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"cup_controller/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockEventRepo(t *testing.T) (*EventSQLite, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("mock expectations: %v", err)
		}
		_ = db.Close()
	})
	return NewEventSQLite(db), mock
}

func ctx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return c
}

func TestAppend_Success_WithDefaults(t *testing.T) {
	t.Parallel()
	repo, mock := newMockEventRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(insertEventSQL)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "COMMAND", "cup opened", `{"state":"open"}`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Append(ctx(t), models.CupEvent{
		Type:        "  command ",
		Description: "cup opened",
		Metadata:    map[string]any{"state": "open"},
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
}

func TestAppend_FormatsGivenTimeAsUTC(t *testing.T) {
	t.Parallel()
	repo, mock := newMockEventRepo(t)

	loc := time.FixedZone("UTC+2", 2*60*60)
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, loc)

	mock.ExpectExec(regexp.QuoteMeta(insertEventSQL)).
		WithArgs("ev-1", "2025-03-01 10:00:00.000", "CYCLE_START", "started", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Append(ctx(t), models.CupEvent{
		EventID:     "ev-1",
		OccurredAt:  at,
		Type:        models.EventCycleStart,
		Description: "started",
	}); err != nil {
		t.Fatalf("Append: %v", err)
	}
}

func TestAppend_DBError(t *testing.T) {
	t.Parallel()
	repo, mock := newMockEventRepo(t)

	mock.ExpectExec("INSERT INTO cup_events").
		WillReturnError(errors.New("down"))

	err := repo.Append(ctx(t), models.CupEvent{Type: "poll", Description: "x"})
	if err == nil || !strings.Contains(err.Error(), "down") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestList_NoFilters_And_MetadataParsing(t *testing.T) {
	t.Parallel()
	repo, mock := newMockEventRepo(t)

	js, _ := json.Marshal(map[string]any{"a": "b"})
	rows := sqlmock.NewRows([]string{"id", "occurred_at", "type", "message", "meta"}).
		AddRow("1", "2025-01-01 10:00:00.000", "COMMAND", "m1", string(js)).
		AddRow("2", "2025-01-01 11:00:00.250", "COMMAND_FAILED", "m2", nil).
		AddRow("3", "2025-01-01 12:00:00.000", "POLL", "m3", "not-json")

	mock.ExpectQuery(regexp.QuoteMeta(selectEventsSQL + " ORDER BY occurred_at ASC")).
		WillReturnRows(rows)

	got, err := repo.List(ctx(t), time.Time{}, time.Time{}, "", 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("want 3, got %d", len(got))
	}
	want := time.Date(2025, 1, 1, 11, 0, 0, 250*int(time.Millisecond), time.UTC)
	if !got[1].OccurredAt.Equal(want) {
		t.Fatalf("occurred_at = %v, want %v", got[1].OccurredAt, want)
	}
	b1, _ := json.Marshal(got[0].Metadata)
	if string(b1) != string(js) {
		t.Fatalf("metadata mismatch: %s vs %s", b1, js)
	}
	if got[1].Metadata != nil {
		t.Fatalf("expected nil meta, got %#v", got[1].Metadata)
	}
	if got[2].Metadata != "not-json" {
		t.Fatalf("expected raw meta, got %#v", got[2].Metadata)
	}
}

func TestList_WithFiltersAndLimit(t *testing.T) {
	t.Parallel()
	repo, mock := newMockEventRepo(t)

	from := time.Date(2025, 1, 1, 11, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	query := `SELECT * FROM (` + selectEventsSQL +
		` WHERE occurred_at >= ? AND occurred_at <= ? AND type = ? ORDER BY occurred_at DESC LIMIT ?) ORDER BY occurred_at ASC`

	rows := sqlmock.NewRows([]string{"id", "occurred_at", "type", "message", "meta"}).
		AddRow("2", "2025-01-01 11:00:00.000", "CYCLE_PAUSE", "b", nil)

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs("2025-01-01 11:00:00.000", "2025-01-01 12:00:00.000", "CYCLE_PAUSE", 5).
		WillReturnRows(rows)

	got, err := repo.List(ctx(t), from, to, " cycle_pause ", 5)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].EventID != "2" {
		t.Fatalf("unexpected results: %+v", got)
	}
}

func TestList_BadTimestamp(t *testing.T) {
	t.Parallel()
	repo, mock := newMockEventRepo(t)

	rows := sqlmock.NewRows([]string{"id", "occurred_at", "type", "message", "meta"}).
		AddRow("x", "yesterday", "POLL", "msg", nil)
	mock.ExpectQuery(regexp.QuoteMeta(selectEventsSQL)).WillReturnRows(rows)

	if _, err := repo.List(ctx(t), time.Time{}, time.Time{}, "", 0); err == nil {
		t.Fatalf("expected parse error, got nil")
	}
}
