// Package keyring keeps the database DSN and the signed-in owner id in the
// OS credential store.
package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/constants"
)

var (
	ErrNotFound           = errors.New("credentials not found in keyring")
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// entry is one secret stored under the app's keyring service.
type entry struct {
	user  string
	label string
}

var (
	connEntry  = entry{user: constants.DefaultKeyringUser, label: "connection string"}
	ownerEntry = entry{user: constants.OwnerKeyringUser, label: "owner id"}
)

func (e entry) get() (string, error) {
	v, err := keyring.Get(constants.AppName, e.user)
	switch {
	case err == nil:
		return v, nil
	case errors.Is(err, keyring.ErrNotFound):
		return "", ErrNotFound
	default:
		return "", fmt.Errorf("%w: reading %s: %v", ErrKeyringUnavailable, e.label, err)
	}
}

func (e entry) set(value string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", e.label)
	}
	if err := keyring.Set(constants.AppName, e.user, value); err != nil {
		return fmt.Errorf("storing %s: %w", e.label, err)
	}
	return nil
}

func (e entry) delete() error {
	err := keyring.Delete(constants.AppName, e.user)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, keyring.ErrNotFound):
		return ErrNotFound
	default:
		return fmt.Errorf("removing %s: %w", e.label, err)
	}
}

// GetConnectionString returns the stored DSN, or ErrNotFound.
func GetConnectionString() (string, error) { return connEntry.get() }

func SetConnectionString(connStr string) error { return connEntry.set(connStr) }

func DeleteConnectionString() error { return connEntry.delete() }

// GetOwnerID returns the signed-in owner id, or ErrNotFound when signed out.
func GetOwnerID() (string, error) { return ownerEntry.get() }

func SetOwnerID(ownerID string) error { return ownerEntry.set(ownerID) }

// DeleteOwnerID signs the current identity out.
func DeleteOwnerID() error { return ownerEntry.delete() }

// IsAvailable probes the credential store with a lookup that is expected to miss.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "availability-probe")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
