// Package users keeps accounts in the same key/value persistence model as
// the rest of the app: one collection under one key.
package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"mealcheckin/internal/kvstore"
	"mealcheckin/internal/models"
	"mealcheckin/internal/services"
)

const collectionKey = "users"

var (
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("email already registered")
)

// Store persists user accounts. With encryption configured, emails are
// stored encrypted and matched through their blind index.
type Store struct {
	kv  kvstore.Store
	enc *services.EncryptionService
	now func() time.Time
}

func NewStore(kv kvstore.Store, enc *services.EncryptionService) *Store {
	return &Store{kv: kv, enc: enc, now: time.Now}
}

func (s *Store) matches(u models.User, email, index string) bool {
	if index != "" {
		return u.EmailBlindIndex == index
	}
	return u.Email == email
}

// Create registers an account. The password hash must already be computed
// by the caller.
func (s *Store) Create(ctx context.Context, email, passwordHash string) (models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    s.now(),
	}
	if err := s.enc.EncryptUser(&user); err != nil {
		return models.User{}, err
	}

	index := s.enc.EmailBlindIndex(email)
	err := kvstore.UpdateCollection(ctx, s.kv, collectionKey, func(items []models.User) ([]models.User, error) {
		for _, u := range items {
			if s.matches(u, email, index) {
				return nil, ErrEmailExists
			}
		}
		return append(items, user), nil
	})
	if err != nil {
		return models.User{}, err
	}

	user.Email = email
	return user, nil
}

// FindByEmail returns the account for a login attempt, email decrypted.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	index := s.enc.EmailBlindIndex(email)

	items, err := kvstore.LoadCollection[models.User](ctx, s.kv, collectionKey)
	if err != nil {
		return models.User{}, err
	}
	for _, u := range items {
		if s.matches(u, email, index) {
			if err := s.enc.DecryptUser(&u); err != nil {
				return models.User{}, err
			}
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}

// FindByID returns the account with the given id, email decrypted.
func (s *Store) FindByID(ctx context.Context, id string) (models.User, error) {
	items, err := kvstore.LoadCollection[models.User](ctx, s.kv, collectionKey)
	if err != nil {
		return models.User{}, err
	}
	for _, u := range items {
		if u.ID == id {
			if err := s.enc.DecryptUser(&u); err != nil {
				return models.User{}, err
			}
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}
