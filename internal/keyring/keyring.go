package keyring

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/habitual/internal/constants"
)

var (
	ErrNotFound           = errors.New("credentials not found in keyring")
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Source names where a connection string was found.
type Source string

const (
	SourceNone    Source = ""
	SourceKeyring Source = "keyring"
	SourceEnv     Source = "environment"
)

// GetConnectionString reads the PostgreSQL connection string from the OS keyring.
func GetConnectionString() (string, error) {
	connStr, err := keyring.Get(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return connStr, nil
}

func SetConnectionString(connStr string) error {
	if strings.TrimSpace(connStr) == "" {
		return errors.New("connection string cannot be empty")
	}
	if err := keyring.Set(constants.AppName, constants.DefaultKeyringUser, connStr); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

func DeleteConnectionString() error {
	err := keyring.Delete(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// IsAvailable is a best-effort check of the OS keyring.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}

// ResolveConnectionString looks for a stored connection string, first in the
// keyring and then in HABITUAL_DB_CONNECTION. It returns SourceNone and no
// error when neither holds one.
func ResolveConnectionString() (string, Source, error) {
	connStr, err := GetConnectionString()
	switch {
	case err == nil:
		return connStr, SourceKeyring, nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrKeyringUnavailable):
		// fall through to the environment
	default:
		return "", SourceNone, err
	}

	if env := strings.TrimSpace(os.Getenv(constants.EnvDBConnection)); env != "" {
		return env, SourceEnv, nil
	}
	return "", SourceNone, nil
}
