package usermanagement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/january-msemakweli/MoAfyaCamps/pkg/backend"
	"github.com/january-msemakweli/MoAfyaCamps/pkg/camp"
	umUtils "github.com/january-msemakweli/MoAfyaCamps/pkg/user-management/utils"
)

// ErrUnknownUser hides the concrete cause of a failed principal resolution
// from the caller. Details are only logged.
var ErrUnknownUser = errors.New("unknown user")

// ResolveUser maps a principal id to a resolved user by joining the identity
// account with its profile row. A missing profile rejects the principal
// instead of defaulting the admin flag.
func ResolveUser(ctx context.Context, identity backend.Identity, tables backend.Tables, userID string) (*camp.User, error) {
	account, err := identity.GetAccount(ctx, userID)
	if err != nil {
		slog.Warn("ResolveUser: error loading identity account", slog.String("userID", userID), slog.String("error", err.Error()))
		return nil, ErrUnknownUser
	}

	profiles, err := tables.Select(ctx, camp.TableProfiles, backend.Eq("id", userID))
	if err != nil {
		slog.Warn("ResolveUser: error loading profile", slog.String("userID", userID), slog.String("error", err.Error()))
		return nil, ErrUnknownUser
	}
	if len(profiles) == 0 {
		slog.Warn("ResolveUser: identity account without profile", slog.String("userID", userID))
		return nil, ErrUnknownUser
	}

	return &camp.User{
		ID:      account.ID,
		Email:   account.Email,
		IsAdmin: profiles[0].BoolField("is_admin"),
	}, nil
}

// SignInUser authenticates the credentials and resolves the admin flag from
// the profile row. Unlike ResolveUser, a missing profile is tolerated here
// and treated as a non-admin, matching the login flow of the web UI.
func SignInUser(ctx context.Context, identity backend.Identity, tables backend.Tables, email string, password string) (*camp.User, error) {
	email = umUtils.SanitizeEmail(email)

	account, err := identity.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}

	isAdmin := false
	profiles, err := tables.Select(ctx, camp.TableProfiles, backend.Eq("id", account.ID))
	if err != nil {
		slog.Warn("SignInUser: error loading profile", slog.String("userID", account.ID), slog.String("error", err.Error()))
	} else if len(profiles) > 0 {
		isAdmin = profiles[0].BoolField("is_admin")
	}

	return &camp.User{ID: account.ID, Email: account.Email, IsAdmin: isAdmin}, nil
}

// ProvisionInput is the payload for creating a user account.
type ProvisionInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
}

func (in ProvisionInput) Validate() error {
	var issues camp.ValidationErrors
	if in.Email == "" || in.Password == "" {
		issues = append(issues, camp.FieldIssue{Field: "email", Message: "Email and password are required"})
		return issues
	}
	if !umUtils.CheckEmailFormat(in.Email) {
		issues = append(issues, camp.FieldIssue{Field: "email", Message: "Invalid email format"})
	}
	if !umUtils.CheckPasswordFormat(in.Password) {
		issues = append(issues, camp.FieldIssue{Field: "password", Message: "Password must be at least 8 characters long"})
	}
	if len(issues) > 0 {
		return issues
	}
	return nil
}

// ProvisionAccount creates an identity account and its profile row. If the
// profile insert fails after the account was created, the account is deleted
// again so that no identity account persists without a profile row.
func ProvisionAccount(ctx context.Context, identity backend.Identity, tables backend.Tables, in ProvisionInput) (*camp.User, error) {
	in.Email = umUtils.SanitizeEmail(in.Email)
	if err := in.Validate(); err != nil {
		return nil, err
	}

	account, err := identity.CreateAccount(ctx, in.Email, in.Password, true)
	if err != nil {
		return nil, fmt.Errorf("creating identity account: %w", err)
	}
	if account == nil || account.ID == "" {
		// The provider accepted the call but returned no usable account.
		// Try to find and remove the orphan by email so the saga contract
		// holds on this path too.
		compensateByEmail(ctx, identity, in.Email)
		return nil, errors.New("identity provider returned no usable account")
	}

	profile, err := tables.Insert(ctx, camp.TableProfiles, backend.Row{
		"id":       account.ID,
		"is_admin": in.IsAdmin,
	})
	if err != nil || profile == nil {
		if delErr := identity.DeleteAccount(ctx, account.ID); delErr != nil {
			slog.Error("ProvisionAccount: compensating delete failed, identity account orphaned",
				slog.String("userID", account.ID), slog.String("error", delErr.Error()))
		}
		if err == nil {
			err = errors.New("profile insert returned no row")
		}
		return nil, fmt.Errorf("creating profile: %w", err)
	}

	return &camp.User{ID: account.ID, Email: account.Email, IsAdmin: in.IsAdmin}, nil
}

func compensateByEmail(ctx context.Context, identity backend.Identity, email string) {
	accounts, err := identity.ListAccounts(ctx)
	if err != nil {
		slog.Error("ProvisionAccount: could not list accounts for compensation", slog.String("error", err.Error()))
		return
	}
	for _, account := range accounts {
		if account.Email == email {
			if err := identity.DeleteAccount(ctx, account.ID); err != nil {
				slog.Error("ProvisionAccount: compensating delete failed", slog.String("userID", account.ID), slog.String("error", err.Error()))
			}
			return
		}
	}
}

// ListUsers joins all identity accounts with their profile rows. Accounts
// without a profile are listed as non-admins.
func ListUsers(ctx context.Context, identity backend.Identity, tables backend.Tables) ([]camp.User, error) {
	accounts, err := identity.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}

	profiles, err := tables.Select(ctx, camp.TableProfiles)
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}
	profilesByID := make(map[string]backend.Row, len(profiles))
	for _, profile := range profiles {
		profilesByID[profile.StringField("id")] = profile
	}

	users := make([]camp.User, 0, len(accounts))
	for _, account := range accounts {
		isAdmin := false
		if profile, ok := profilesByID[account.ID]; ok {
			isAdmin = profile.BoolField("is_admin")
		}
		users = append(users, camp.User{ID: account.ID, Email: account.Email, IsAdmin: isAdmin})
	}
	return users, nil
}

// DeleteUser removes the profile row first, then the identity account.
func DeleteUser(ctx context.Context, identity backend.Identity, tables backend.Tables, userID string) error {
	if err := tables.Delete(ctx, camp.TableProfiles, backend.Eq("id", userID)); err != nil {
		return fmt.Errorf("deleting profile: %w", err)
	}
	if err := identity.DeleteAccount(ctx, userID); err != nil {
		return fmt.Errorf("deleting identity account: %w", err)
	}
	return nil
}
