package hosted

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/january-msemakweli/MoAfyaCamps/pkg/backend"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, ClientConfig) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server, ClientConfig{RootURL: server.URL, ServiceKey: "service-key"}
}

func TestTableClientSelect(t *testing.T) {
	_, config := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v1/forms" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("project_id"); got != "eq.project-1" {
			t.Errorf("unexpected filter encoding: %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer service-key" {
			t.Errorf("unexpected authorization header: %q", got)
		}
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{
			{"id": "form-1", "project_id": "project-1"},
		})
	})

	client := NewTableClient(config)
	rows, err := client.Select(context.Background(), "forms", backend.Eq("project_id", "project-1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].StringField("id") != "form-1" {
		t.Errorf("unexpected rows: %+v", rows)
	}
}

func TestTableClientInsertReturnsRepresentation(t *testing.T) {
	_, config := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if got := r.Header.Get("Prefer"); got != "return=representation" {
			t.Errorf("unexpected Prefer header: %q", got)
		}
		var row map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&row)
		row["id"] = "submission-1"
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{row})
	})

	client := NewTableClient(config)
	row, err := client.Insert(context.Background(), "submissions", backend.Row{"patient_id": "050324-007"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.StringField("id") != "submission-1" {
		t.Errorf("expected echoed row with id, got %+v", row)
	}
}

func TestIdentityClientSignInMapsCredentialErrors(t *testing.T) {
	_, config := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error_description": "Invalid login credentials"})
	})

	client := NewIdentityClient(config)
	_, err := client.SignInWithPassword(context.Background(), "user@example.com", "wrong")
	if !errors.Is(err, backend.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestIdentityClientGetAccountNotFound(t *testing.T) {
	_, config := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "user not found"})
	})

	client := NewIdentityClient(config)
	_, err := client.GetAccount(context.Background(), "ghost")
	if !errors.Is(err, backend.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestIdentityClientCreateAccount(t *testing.T) {
	_, config := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/admin/users" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var payload map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&payload)
		if payload["email_confirm"] != true {
			t.Error("expected account to be created pre-confirmed")
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":                 "account-1",
			"email":              payload["email"],
			"email_confirmed_at": "2024-03-05T09:00:00Z",
		})
	})

	client := NewIdentityClient(config)
	account, err := client.CreateAccount(context.Background(), "nurse@example.com", "longenough", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.ID != "account-1" || !account.EmailConfirmed {
		t.Errorf("unexpected account: %+v", account)
	}
}
