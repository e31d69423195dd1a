package repository

import (
	"context"
	"time"
)

// Account is the profile document kept next to the provider identity,
// keyed by the provider uid.
type Account struct {
	UID          string     `json:"uid"`
	Email        string     `json:"email"`
	DisplayName  string     `json:"displayName"`
	ImageProfile *string    `json:"imageProfile"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

// AccountUpdate lists the mutable profile fields. Nil means unchanged.
type AccountUpdate struct {
	DisplayName  *string
	ImageProfile *string
}

// AccountReader provides read operations for accounts.
type AccountReader interface {
	GetByUID(ctx context.Context, uid string) (Account, error)
}

// AccountWriter provides write operations for accounts.
type AccountWriter interface {
	Create(ctx context.Context, account Account) error
	Update(ctx context.Context, uid string, update AccountUpdate) error
}

// AccountRepository combines all account operations.
type AccountRepository interface {
	AccountReader
	AccountWriter
}
