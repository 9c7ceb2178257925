// Package identity resolves the signed-in owner for core operations.
package identity

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/constants"
	apperrors "github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/errors"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/keyring"
)

// Provider returns the current owner id, or ErrNotAuthenticated when nobody is signed in.
type Provider interface {
	CurrentIdentity(ctx context.Context) (string, error)
}

// Static always reports the same owner. An empty value means signed out.
type Static string

func (s Static) CurrentIdentity(context.Context) (string, error) {
	if s == "" {
		return "", apperrors.ErrNotAuthenticated
	}
	return string(s), nil
}

// Env reads the owner id from DAYSPENT_OWNER.
type Env struct{}

func (Env) CurrentIdentity(context.Context) (string, error) {
	if v := strings.TrimSpace(os.Getenv(constants.EnvOwner)); v != "" {
		return v, nil
	}
	return "", apperrors.ErrNotAuthenticated
}

// Keyring reads the owner id stored by login.
type Keyring struct{}

func (Keyring) CurrentIdentity(context.Context) (string, error) {
	id, err := keyring.GetOwnerID()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", apperrors.ErrNotAuthenticated
		}
		return "", err
	}
	return id, nil
}

// Chain tries each provider in order and returns the first identity found.
type Chain []Provider

func (c Chain) CurrentIdentity(ctx context.Context) (string, error) {
	for _, p := range c {
		id, err := p.CurrentIdentity(ctx)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, apperrors.ErrNotAuthenticated) {
			return "", err
		}
	}
	return "", apperrors.ErrNotAuthenticated
}

// Default resolves the environment first, then the OS keyring.
func Default() Provider {
	return Chain{Env{}, Keyring{}}
}

// SignIn records ownerID in the OS keyring.
func SignIn(ownerID string) error {
	return keyring.SetOwnerID(ownerID)
}

// SignOut clears the keyring identity. Signing out twice is not an error.
func SignOut() error {
	if err := keyring.DeleteOwnerID(); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	return nil
}
