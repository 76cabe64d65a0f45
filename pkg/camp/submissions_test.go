package camp

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/january-msemakweli/MoAfyaCamps/pkg/backend"
)

type fakeTables struct {
	rows      map[string][]backend.Row
	insertErr error
}

func newFakeTables() *fakeTables {
	return &fakeTables{rows: map[string][]backend.Row{}}
}

func (f *fakeTables) Select(_ context.Context, table string, filters ...backend.Filter) ([]backend.Row, error) {
	var result []backend.Row
	for _, row := range f.rows[table] {
		if rowMatches(row, filters) {
			result = append(result, row)
		}
	}
	return result, nil
}

func (f *fakeTables) Insert(_ context.Context, table string, row backend.Row) (backend.Row, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	if _, ok := row["id"]; !ok {
		row["id"] = fmt.Sprintf("%s-%d", table, len(f.rows[table])+1)
	}
	f.rows[table] = append(f.rows[table], row)
	return row, nil
}

func (f *fakeTables) Update(_ context.Context, table string, values backend.Row, filters ...backend.Filter) ([]backend.Row, error) {
	var result []backend.Row
	for _, row := range f.rows[table] {
		if rowMatches(row, filters) {
			for k, v := range values {
				row[k] = v
			}
			result = append(result, row)
		}
	}
	return result, nil
}

func (f *fakeTables) Delete(_ context.Context, table string, filters ...backend.Filter) error {
	kept := f.rows[table][:0]
	for _, row := range f.rows[table] {
		if !rowMatches(row, filters) {
			kept = append(kept, row)
		}
	}
	f.rows[table] = kept
	return nil
}

func rowMatches(row backend.Row, filters []backend.Filter) bool {
	for _, filter := range filters {
		if row[filter.Column] != filter.Value {
			return false
		}
	}
	return true
}

func seedProjectAndForm(tables *fakeTables) {
	tables.rows[TableProjects] = []backend.Row{
		{"id": "project-1", "name": "Clinic A", "camp_date": "050324"},
	}
	tables.rows[TableForms] = []backend.Row{
		{"id": "form-1", "name": "Intake", "project_id": "project-1"},
	}
}

func TestCreateSubmission(t *testing.T) {
	tables := newFakeTables()
	seedProjectAndForm(tables)

	now := time.Date(2024, 3, 5, 9, 15, 0, 0, time.UTC)
	in := SubmissionInput{
		FormID:        "form-1",
		PatientNumber: "007",
		Fields:        map[string]interface{}{"temperature": "37.2"},
	}

	row, err := CreateSubmission(context.Background(), tables, "user-1", in, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := row.StringField("patient_id"); got != "050324-007" {
		t.Errorf("expected patient_id 050324-007, got %q", got)
	}
	if got := row.StringField("user_id"); got != "user-1" {
		t.Errorf("expected user_id user-1, got %q", got)
	}
	if got := row.StringField("submitted_at"); got != "2024-03-05 09:15:00" {
		t.Errorf("unexpected submitted_at: %q", got)
	}
	if len(tables.rows[TableSubmissions]) != 1 {
		t.Fatalf("expected one persisted submission, got %d", len(tables.rows[TableSubmissions]))
	}
}

func TestCreateSubmissionUnknownForm(t *testing.T) {
	tables := newFakeTables()
	seedProjectAndForm(tables)

	_, err := CreateSubmission(context.Background(), tables, "user-1", SubmissionInput{
		FormID:        "missing",
		PatientNumber: "007",
	}, time.Now())
	if !errors.Is(err, backend.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if len(tables.rows[TableSubmissions]) != 0 {
		t.Error("expected no submission row on lookup failure")
	}
}

func TestCreateSubmissionUnknownProject(t *testing.T) {
	tables := newFakeTables()
	tables.rows[TableForms] = []backend.Row{
		{"id": "form-1", "project_id": "gone"},
	}

	_, err := CreateSubmission(context.Background(), tables, "user-1", SubmissionInput{
		FormID:        "form-1",
		PatientNumber: "007",
	}, time.Now())
	if !errors.Is(err, backend.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// Retries carry no idempotency key: two identical calls persist two rows that
// share the same patient id.
func TestCreateSubmissionDuplicateRetry(t *testing.T) {
	tables := newFakeTables()
	seedProjectAndForm(tables)

	in := SubmissionInput{FormID: "form-1", PatientNumber: "007"}
	now := time.Now()

	first, err := CreateSubmission(context.Background(), tables, "user-1", in, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := CreateSubmission(context.Background(), tables, "user-1", in, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(tables.rows[TableSubmissions]) != 2 {
		t.Fatalf("expected two submission rows, got %d", len(tables.rows[TableSubmissions]))
	}
	if first.StringField("patient_id") != second.StringField("patient_id") {
		t.Error("expected both rows to share the same patient_id")
	}
	if first.StringField("id") == second.StringField("id") {
		t.Error("expected distinct row ids")
	}
}

func TestSubmissionInputValidate(t *testing.T) {
	err := SubmissionInput{}.Validate()
	var issues ValidationErrors
	if !errors.As(err, &issues) || len(issues) != 2 {
		t.Fatalf("expected two field issues, got %v", err)
	}

	if err := (SubmissionInput{FormID: "f", PatientNumber: "1"}).Validate(); err != nil {
		t.Errorf("expected valid input, got %v", err)
	}
}
