package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/irsalhamdi/pos-kasir/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrPasswordMismatch   = errors.New("new password confirmation does not match")
)

const (
	DefaultUsername = "admin"
	DefaultPassword = "admin123"
)

// Credentials of the single operator account, stored in plaintext.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Login struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ProfileUp changes the operator account. An empty NewPassword keeps the
// current one.
type ProfileUp struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	Username        string `json:"username" validate:"required"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Load returns the stored credentials, falling back to the defaults for
// fields never set.
func Load(tx *store.Tx) (Credentials, error) {
	var c Credentials
	if _, err := tx.Get(store.KeyCredentials, &c); err != nil {
		return Credentials{}, err
	}
	if c.Username == "" {
		c.Username = DefaultUsername
	}
	if c.Password == "" {
		c.Password = DefaultPassword
	}
	return c, nil
}

func Save(tx *store.Tx, c Credentials) error {
	return tx.Put(store.KeyCredentials, c)
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// Check compares username and password with the stored account.
func Check(ctx context.Context, st *store.Store, username, password string) error {
	err := st.Transaction(ctx, func(tx *store.Tx) error {
		c, err := Load(tx)
		if err != nil {
			return err
		}

		userOK := equal(username, c.Username)
		passOK := equal(password, c.Password)
		if !userOK || !passOK {
			return ErrInvalidCredentials
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("authenticating %q: %w", username, err)
	}
	return nil
}

func Current(ctx context.Context, st *store.Store) (string, error) {
	var c Credentials
	err := st.Transaction(ctx, func(tx *store.Tx) error {
		var err error
		c, err = Load(tx)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("loading credentials: %w", err)
	}
	return c.Username, nil
}

func UpdateProfile(ctx context.Context, st *store.Store, up ProfileUp) error {
	err := st.Transaction(ctx, func(tx *store.Tx) error {
		c, err := Load(tx)
		if err != nil {
			return err
		}

		if !equal(up.CurrentPassword, c.Password) {
			return ErrInvalidCredentials
		}

		if up.NewPassword != "" {
			if up.NewPassword != up.ConfirmPassword {
				return ErrPasswordMismatch
			}
			c.Password = up.NewPassword
		}
		c.Username = up.Username

		return Save(tx, c)
	})
	if err != nil {
		return fmt.Errorf("updating profile: %w", err)
	}
	return nil
}
