package hosted

import (
	"context"
	"net/http"
	"time"

	"github.com/january-msemakweli/MoAfyaCamps/pkg/backend"
)

// IdentityClient talks to the identity capability of the hosted backend
// (GoTrue-style admin and token endpoints).
type IdentityClient struct {
	config ClientConfig
}

func NewIdentityClient(config ClientConfig) *IdentityClient {
	return &IdentityClient{config: config}
}

type accountPayload struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	EmailConfirmedAt string `json:"email_confirmed_at"`
	CreatedAt        string `json:"created_at"`
}

func (p accountPayload) toAccount() backend.Account {
	createdAt, _ := time.Parse(time.RFC3339, p.CreatedAt)
	return backend.Account{
		ID:             p.ID,
		Email:          p.Email,
		EmailConfirmed: p.EmailConfirmedAt != "",
		CreatedAt:      createdAt,
	}
}

func (c *IdentityClient) SignInWithPassword(ctx context.Context, email string, password string) (*backend.Account, error) {
	var resp struct {
		User accountPayload `json:"user"`
	}
	err := c.config.doRequest(ctx, http.MethodPost, "/auth/v1/token",
		map[string][]string{"grant_type": {"password"}},
		map[string]string{"email": email, "password": password},
		nil, &resp)
	if err != nil {
		if status := statusOf(err); status == http.StatusBadRequest || status == http.StatusUnauthorized {
			return nil, backend.ErrInvalidCredentials
		}
		return nil, err
	}
	account := resp.User.toAccount()
	return &account, nil
}

func (c *IdentityClient) CreateAccount(ctx context.Context, email string, password string, confirmed bool) (*backend.Account, error) {
	var resp accountPayload
	err := c.config.doRequest(ctx, http.MethodPost, "/auth/v1/admin/users", nil,
		map[string]interface{}{
			"email":         email,
			"password":      password,
			"email_confirm": confirmed,
		}, nil, &resp)
	if err != nil {
		if statusOf(err) == http.StatusUnprocessableEntity {
			return nil, backend.ErrDuplicate
		}
		return nil, err
	}
	account := resp.toAccount()
	return &account, nil
}

func (c *IdentityClient) GetAccount(ctx context.Context, id string) (*backend.Account, error) {
	var resp accountPayload
	err := c.config.doRequest(ctx, http.MethodGet, "/auth/v1/admin/users/"+id, nil, nil, nil, &resp)
	if err != nil {
		if statusOf(err) == http.StatusNotFound {
			return nil, backend.ErrNotFound
		}
		return nil, err
	}
	account := resp.toAccount()
	return &account, nil
}

func (c *IdentityClient) ListAccounts(ctx context.Context) ([]backend.Account, error) {
	var resp struct {
		Users []accountPayload `json:"users"`
	}
	if err := c.config.doRequest(ctx, http.MethodGet, "/auth/v1/admin/users", nil, nil, nil, &resp); err != nil {
		return nil, err
	}
	accounts := make([]backend.Account, len(resp.Users))
	for i, user := range resp.Users {
		accounts[i] = user.toAccount()
	}
	return accounts, nil
}

func (c *IdentityClient) DeleteAccount(ctx context.Context, id string) error {
	err := c.config.doRequest(ctx, http.MethodDelete, "/auth/v1/admin/users/"+id, nil, nil, nil, nil)
	if err != nil && statusOf(err) == http.StatusNotFound {
		return backend.ErrNotFound
	}
	return err
}
