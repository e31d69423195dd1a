package repository

import (
	"context"
	"errors"

	"capstone_backend/internal/docstore"
	"capstone_backend/platform/apperr"
)

const (
	fieldUID          = "uid"
	fieldEmail        = "email"
	fieldDisplayName  = "displayName"
	fieldImageProfile = "imageProfile"
	fieldCreatedAt    = "createdAt"
	fieldUpdatedAt    = "updatedAt"

	msgAccountNotFound = "Account not found"
)

// Repository stores accounts in the accounts collection.
type Repository struct {
	store docstore.Store
}

func New(store docstore.Store) *Repository {
	return &Repository{store: store}
}

var _ AccountRepository = (*Repository)(nil)

func (r *Repository) GetByUID(ctx context.Context, uid string) (Account, error) {
	doc, err := r.store.Get(ctx, docstore.CollectionAccounts, uid)
	if errors.Is(err, docstore.ErrNotFound) {
		return Account{}, apperr.NotFound(msgAccountNotFound)
	}
	if err != nil {
		return Account{}, apperr.Upstream("Failed to retrieve account", err)
	}

	var acc Account
	if err := doc.DataTo(&acc); err != nil {
		return Account{}, apperr.Wrap(apperr.KindInternal, "stored account is unreadable", err)
	}
	acc.UID = doc.ID
	return acc, nil
}

// Create writes the account under its uid with both timestamps stamped.
func (r *Repository) Create(ctx context.Context, account Account) error {
	var image any
	if account.ImageProfile != nil {
		image = *account.ImageProfile
	}

	err := r.store.Set(ctx, docstore.CollectionAccounts, account.UID, map[string]any{
		fieldUID:          account.UID,
		fieldEmail:        account.Email,
		fieldDisplayName:  account.DisplayName,
		fieldImageProfile: image,
		fieldCreatedAt:    docstore.ServerTimestamp,
		fieldUpdatedAt:    docstore.ServerTimestamp,
	})
	if err != nil {
		return apperr.Upstream("Failed to save account", err)
	}
	return nil
}

// Update merges the given fields and stamps updatedAt.
func (r *Repository) Update(ctx context.Context, uid string, update AccountUpdate) error {
	fields := map[string]any{fieldUpdatedAt: docstore.ServerTimestamp}
	if update.DisplayName != nil {
		fields[fieldDisplayName] = *update.DisplayName
	}
	if update.ImageProfile != nil {
		fields[fieldImageProfile] = *update.ImageProfile
	}

	err := r.store.Update(ctx, docstore.CollectionAccounts, uid, fields)
	if errors.Is(err, docstore.ErrNotFound) {
		return apperr.NotFound(msgAccountNotFound)
	}
	if err != nil {
		return apperr.Upstream("Failed to update account", err)
	}
	return nil
}
