package usermanagement

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/january-msemakweli/MoAfyaCamps/pkg/backend"
	"github.com/january-msemakweli/MoAfyaCamps/pkg/camp"
)

type fakeIdentity struct {
	accounts      []backend.Account
	createErr     error
	createNilResp bool
	createCalls   int
	deleteCalls   []string
}

func (f *fakeIdentity) SignInWithPassword(_ context.Context, email, password string) (*backend.Account, error) {
	for _, account := range f.accounts {
		if account.Email == email {
			return &account, nil
		}
	}
	return nil, backend.ErrInvalidCredentials
}

func (f *fakeIdentity) CreateAccount(_ context.Context, email, _ string, _ bool) (*backend.Account, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	account := backend.Account{ID: fmt.Sprintf("account-%d", f.createCalls), Email: email}
	f.accounts = append(f.accounts, account)
	if f.createNilResp {
		return nil, nil
	}
	return &account, nil
}

func (f *fakeIdentity) GetAccount(_ context.Context, id string) (*backend.Account, error) {
	for _, account := range f.accounts {
		if account.ID == id {
			return &account, nil
		}
	}
	return nil, backend.ErrNotFound
}

func (f *fakeIdentity) ListAccounts(_ context.Context) ([]backend.Account, error) {
	return f.accounts, nil
}

func (f *fakeIdentity) DeleteAccount(_ context.Context, id string) error {
	f.deleteCalls = append(f.deleteCalls, id)
	kept := f.accounts[:0]
	for _, account := range f.accounts {
		if account.ID != id {
			kept = append(kept, account)
		}
	}
	f.accounts = kept
	return nil
}

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
	f.rows[table] = append(f.rows[table], row)
	return row, nil
}

func (f *fakeTables) Update(_ context.Context, table string, values backend.Row, filters ...backend.Filter) ([]backend.Row, error) {
	return nil, nil
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

func TestProvisionAccount(t *testing.T) {
	identity := &fakeIdentity{}
	tables := newFakeTables()

	user, err := ProvisionAccount(context.Background(), identity, tables, ProvisionInput{
		Email:    "Nurse@Example.com",
		Password: "longenough",
		IsAdmin:  true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if user.Email != "nurse@example.com" {
		t.Errorf("expected sanitized email, got %q", user.Email)
	}
	if !user.IsAdmin {
		t.Error("expected admin flag to carry over")
	}
	if len(tables.rows[camp.TableProfiles]) != 1 {
		t.Fatalf("expected one profile row, got %d", len(tables.rows[camp.TableProfiles]))
	}
	if got := tables.rows[camp.TableProfiles][0].StringField("id"); got != user.ID {
		t.Errorf("profile row id %q does not match account id %q", got, user.ID)
	}
}

func TestProvisionAccountValidation(t *testing.T) {
	tests := []struct {
		name  string
		input ProvisionInput
	}{
		{"missing email", ProvisionInput{Password: "longenough"}},
		{"missing password", ProvisionInput{Email: "user@example.com"}},
		{"bad email format", ProvisionInput{Email: "not-an-email", Password: "longenough"}},
		{"short password", ProvisionInput{Email: "user@example.com", Password: "seven77"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			identity := &fakeIdentity{}
			tables := newFakeTables()

			_, err := ProvisionAccount(context.Background(), identity, tables, test.input)

			var issues camp.ValidationErrors
			if !errors.As(err, &issues) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if identity.createCalls != 0 {
				t.Error("expected no identity call on validation failure")
			}
		})
	}
}

func TestProvisionAccountCompensatesOnProfileFailure(t *testing.T) {
	identity := &fakeIdentity{}
	tables := newFakeTables()
	tables.insertErr = errors.New("constraint violation")

	_, err := ProvisionAccount(context.Background(), identity, tables, ProvisionInput{
		Email:    "nurse@example.com",
		Password: "longenough",
	})
	if err == nil {
		t.Fatal("expected error")
	}

	if len(identity.deleteCalls) != 1 {
		t.Fatalf("expected one compensating delete, got %d", len(identity.deleteCalls))
	}
	if len(identity.accounts) != 0 {
		t.Error("expected identity account to be gone after compensation")
	}
}

func TestProvisionAccountCompensatesOnUnusableResponse(t *testing.T) {
	identity := &fakeIdentity{createNilResp: true}
	tables := newFakeTables()

	_, err := ProvisionAccount(context.Background(), identity, tables, ProvisionInput{
		Email:    "nurse@example.com",
		Password: "longenough",
	})
	if err == nil {
		t.Fatal("expected error")
	}

	if len(identity.accounts) != 0 {
		t.Error("expected orphaned identity account to be cleaned up")
	}
	if len(tables.rows[camp.TableProfiles]) != 0 {
		t.Error("expected no profile row")
	}
}

func TestResolveUser(t *testing.T) {
	identity := &fakeIdentity{accounts: []backend.Account{{ID: "account-1", Email: "nurse@example.com"}}}
	tables := newFakeTables()
	tables.rows[camp.TableProfiles] = []backend.Row{{"id": "account-1", "is_admin": true}}

	user, err := ResolveUser(context.Background(), identity, tables, "account-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !user.IsAdmin {
		t.Error("expected admin flag from profile row")
	}
}

func TestResolveUserRejectsMissingProfile(t *testing.T) {
	identity := &fakeIdentity{accounts: []backend.Account{{ID: "account-1", Email: "nurse@example.com"}}}
	tables := newFakeTables()

	if _, err := ResolveUser(context.Background(), identity, tables, "account-1"); !errors.Is(err, ErrUnknownUser) {
		t.Errorf("expected ErrUnknownUser, got %v", err)
	}
}

func TestResolveUserRejectsMissingAccount(t *testing.T) {
	identity := &fakeIdentity{}
	tables := newFakeTables()

	if _, err := ResolveUser(context.Background(), identity, tables, "ghost"); !errors.Is(err, ErrUnknownUser) {
		t.Errorf("expected ErrUnknownUser, got %v", err)
	}
}

func TestSignInUserDefaultsAdminFlag(t *testing.T) {
	identity := &fakeIdentity{accounts: []backend.Account{{ID: "account-1", Email: "nurse@example.com"}}}
	tables := newFakeTables()

	user, err := SignInUser(context.Background(), identity, tables, "Nurse@Example.com ", "whatever")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.IsAdmin {
		t.Error("expected non-admin without profile row")
	}
}

func TestListUsersJoinsProfiles(t *testing.T) {
	identity := &fakeIdentity{accounts: []backend.Account{
		{ID: "account-1", Email: "admin@example.com"},
		{ID: "account-2", Email: "nurse@example.com"},
	}}
	tables := newFakeTables()
	tables.rows[camp.TableProfiles] = []backend.Row{{"id": "account-1", "is_admin": true}}

	users, err := ListUsers(context.Background(), identity, tables)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected two users, got %d", len(users))
	}
	if !users[0].IsAdmin || users[1].IsAdmin {
		t.Errorf("unexpected admin flags: %+v", users)
	}
}

func TestDeleteUserRemovesProfileAndAccount(t *testing.T) {
	identity := &fakeIdentity{accounts: []backend.Account{{ID: "account-1", Email: "nurse@example.com"}}}
	tables := newFakeTables()
	tables.rows[camp.TableProfiles] = []backend.Row{{"id": "account-1", "is_admin": false}}

	if err := DeleteUser(context.Background(), identity, tables, "account-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tables.rows[camp.TableProfiles]) != 0 {
		t.Error("expected profile row to be removed")
	}
	if len(identity.accounts) != 0 {
		t.Error("expected identity account to be removed")
	}
}
