package camp

import (
	"time"

	"github.com/january-msemakweli/MoAfyaCamps/pkg/backend"
)

const (
	// TimestampLayout is the fixed second precision format used for
	// created_at and submitted_at columns.
	TimestampLayout = "2006-01-02 15:04:05"

	campDateLayout = "020106"
)

// CampDateToken derives the ddmmyy date token a project uses as the
// namespace prefix for patient identifiers.
func CampDateToken(t time.Time) string {
	return t.Format(campDateLayout)
}

// ComposePatientID joins the project camp date token with the caller supplied
// patient number. The patient number is not normalized; uniqueness is the
// caller's concern.
func ComposePatientID(campDate string, patientNumber string) string {
	return campDate + "-" + patientNumber
}

// NewProjectRecord builds the row for a new project. Both timestamps derive
// from the creation time, never from user input.
func NewProjectRecord(name string, now time.Time) backend.Row {
	return backend.Row{
		"name":       name,
		"created_at": now.Format(TimestampLayout),
		"camp_date":  CampDateToken(now),
	}
}
