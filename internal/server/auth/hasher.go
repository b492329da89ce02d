// Package auth provides the credential primitives of the server: one-way
// password hashing and access token issuance.
package auth

import (
	"errors"

	"github.com/samber/oops"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes and verifies passwords. Implementations must be safe
// for concurrent use.
type PasswordHasher interface {
	// Hash produces a salted one-way digest of password.
	Hash(password string) (string, error)

	// Verify reports whether password matches digest. A mismatch is
	// (false, nil); a digest that cannot be checked at all is an error.
	Verify(password, digest string) (bool, error)
}

// BcryptHasher implements PasswordHasher with bcrypt. It holds no mutable
// state.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher using the given work factor.
func NewBcryptHasher(cost int) (*BcryptHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, oops.Code("AUTH_INVALID_COST").
			With("cost", cost).
			Errorf("bcrypt cost must be within [%d, %d]", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &BcryptHasher{cost: cost}, nil
}

// Cost returns the work factor used for new digests.
func (h *BcryptHasher) Cost() int {
	return h.cost
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", oops.Code("PASSWORD_HASH_FAILED").Wrap(err)
	}
	return string(digest), nil
}

// maxPasswordBytes is the longest input bcrypt takes into account.
const maxPasswordBytes = 72

func (h *BcryptHasher) Verify(password, digest string) (bool, error) {
	// bcrypt would compare only the first 72 bytes
	if len(password) > maxPasswordBytes {
		return false, nil
	}
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, oops.Code("PASSWORD_VERIFY_FAILED").Wrap(err)
	}
}
