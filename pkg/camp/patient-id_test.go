package camp

import (
	"testing"
	"time"
)

func TestCampDateToken(t *testing.T) {
	tests := []struct {
		date     time.Time
		expected string
	}{
		{time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC), "050324"},
		{time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), "311224"},
		{time.Date(2025, 1, 1, 23, 59, 59, 0, time.UTC), "010125"},
	}

	for _, test := range tests {
		if got := CampDateToken(test.date); got != test.expected {
			t.Errorf("CampDateToken(%v) = %q, expected %q", test.date, got, test.expected)
		}
	}
}

func TestComposePatientID(t *testing.T) {
	tests := []struct {
		campDate      string
		patientNumber string
		expected      string
	}{
		{"050324", "007", "050324-007"},
		{"311224", "1", "311224-1"},
		// no normalization of the caller supplied number
		{"050324", "007 ", "050324-007 "},
		{"050324", "", "050324-"},
	}

	for _, test := range tests {
		if got := ComposePatientID(test.campDate, test.patientNumber); got != test.expected {
			t.Errorf("ComposePatientID(%q, %q) = %q, expected %q", test.campDate, test.patientNumber, got, test.expected)
		}
	}
}

func TestNewProjectRecord(t *testing.T) {
	now := time.Date(2024, 3, 5, 14, 22, 7, 0, time.UTC)
	row := NewProjectRecord("Clinic A", now)

	if row.StringField("name") != "Clinic A" {
		t.Errorf("expected name Clinic A, got %q", row.StringField("name"))
	}
	if row.StringField("created_at") != "2024-03-05 14:22:07" {
		t.Errorf("unexpected created_at: %q", row.StringField("created_at"))
	}
	if row.StringField("camp_date") != "050324" {
		t.Errorf("unexpected camp_date: %q", row.StringField("camp_date"))
	}
}
