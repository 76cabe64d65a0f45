package camp

import "strings"

// Table names owned by the storage backend.
const (
	TableProfiles    = "profiles"
	TableProjects    = "projects"
	TableForms       = "forms"
	TableSubmissions = "submissions"
)

// User is a resolved principal: identity account joined with its profile row.
type User struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

// FieldIssue describes one invalid input field.
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is the error type produced by input validation, before any
// backend call is made.
type ValidationErrors []FieldIssue

func (ve ValidationErrors) Error() string {
	msgs := make([]string, len(ve))
	for i, issue := range ve {
		msgs[i] = issue.Message
	}
	return strings.Join(msgs, "; ")
}
