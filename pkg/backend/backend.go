package backend

import (
	"context"
	"errors"
	"time"
)

// Common error kinds returned by backend drivers. Callers decide the HTTP
// status mapping.
var (
	ErrNotFound           = errors.New("record not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicate          = errors.New("record already exists")
)

// Row is a single table record as the storage backend returns it.
type Row map[string]interface{}

// Filter is an equality predicate on a single column.
type Filter struct {
	Column string
	Value  interface{}
}

func Eq(column string, value interface{}) Filter {
	return Filter{Column: column, Value: value}
}

// Account is an identity provider account.
type Account struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	EmailConfirmed bool      `json:"email_confirmed"`
	CreatedAt      time.Time `json:"created_at"`
}

// Identity is the identity capability of the backend service.
type Identity interface {
	SignInWithPassword(ctx context.Context, email string, password string) (*Account, error)
	CreateAccount(ctx context.Context, email string, password string, confirmed bool) (*Account, error)
	GetAccount(ctx context.Context, id string) (*Account, error)
	ListAccounts(ctx context.Context) ([]Account, error)
	DeleteAccount(ctx context.Context, id string) error
}

// Tables is the table storage capability of the backend service. Filters are
// combined with AND semantics.
type Tables interface {
	Select(ctx context.Context, table string, filters ...Filter) ([]Row, error)
	Insert(ctx context.Context, table string, row Row) (Row, error)
	Update(ctx context.Context, table string, values Row, filters ...Filter) ([]Row, error)
	Delete(ctx context.Context, table string, filters ...Filter) error
}

// StringField reads a string valued column from a row, returning the empty
// string if the column is absent or not a string.
func (r Row) StringField(column string) string {
	v, ok := r[column].(string)
	if !ok {
		return ""
	}
	return v
}

// BoolField reads a bool valued column from a row.
func (r Row) BoolField(column string) bool {
	v, ok := r[column].(bool)
	if !ok {
		return false
	}
	return v
}
