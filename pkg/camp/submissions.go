package camp

import (
	"context"
	"fmt"
	"time"

	"github.com/january-msemakweli/MoAfyaCamps/pkg/backend"
)

// SubmissionInput is the payload for creating a form submission.
type SubmissionInput struct {
	FormID        string                 `json:"form_id"`
	PatientNumber string                 `json:"patient_number"`
	Fields        map[string]interface{} `json:"fields"`
}

func (in SubmissionInput) Validate() error {
	var issues ValidationErrors
	if in.FormID == "" {
		issues = append(issues, FieldIssue{Field: "form_id", Message: "form_id is required"})
	}
	if in.PatientNumber == "" {
		issues = append(issues, FieldIssue{Field: "patient_number", Message: "patient_number is required"})
	}
	if len(issues) > 0 {
		return issues
	}
	return nil
}

// CreateSubmission resolves the form and its project, derives the patient id
// from the project camp date and persists the submission row. There is no
// idempotency key: repeated calls insert separate rows sharing a patient id.
func CreateSubmission(ctx context.Context, tables backend.Tables, userID string, in SubmissionInput, now time.Time) (backend.Row, error) {
	forms, err := tables.Select(ctx, TableForms, backend.Eq("id", in.FormID))
	if err != nil {
		return nil, fmt.Errorf("looking up form %s: %w", in.FormID, err)
	}
	if len(forms) == 0 {
		return nil, fmt.Errorf("form %s: %w", in.FormID, backend.ErrNotFound)
	}
	form := forms[0]

	projectID := form.StringField("project_id")
	projects, err := tables.Select(ctx, TableProjects, backend.Eq("id", projectID))
	if err != nil {
		return nil, fmt.Errorf("looking up project %s: %w", projectID, err)
	}
	if len(projects) == 0 {
		return nil, fmt.Errorf("project %s: %w", projectID, backend.ErrNotFound)
	}
	project := projects[0]

	row := backend.Row{
		"user_id":      userID,
		"form_id":      in.FormID,
		"patient_id":   ComposePatientID(project.StringField("camp_date"), in.PatientNumber),
		"fields":       in.Fields,
		"submitted_at": now.Format(TimestampLayout),
	}

	inserted, err := tables.Insert(ctx, TableSubmissions, row)
	if err != nil {
		return nil, fmt.Errorf("inserting submission: %w", err)
	}
	return inserted, nil
}
