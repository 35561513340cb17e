package cryptox

import (
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/crypto/bcrypt"
)

// DefaultPasswordCost is the bcrypt work factor used unless SetPasswordCost
// raises it. Anything lower is refused.
const DefaultPasswordCost = 10

// MaxPasswordBytes is the longest input bcrypt will accept.
const MaxPasswordBytes = 72

var (
	ErrPasswordMismatch = errors.New("cryptox: password does not match")
	ErrPasswordTooLong  = errors.New("cryptox: password exceeds 72 bytes")
)

var passwordCost atomic.Int32

func init() {
	passwordCost.Store(DefaultPasswordCost)
}

// SetPasswordCost changes the bcrypt cost for new hashes. Values below
// DefaultPasswordCost or above bcrypt.MaxCost are rejected.
func SetPasswordCost(cost int) error {
	if cost < DefaultPasswordCost || cost > bcrypt.MaxCost {
		return fmt.Errorf("cryptox: bcrypt cost %d outside [%d, %d]", cost, DefaultPasswordCost, bcrypt.MaxCost)
	}
	passwordCost.Store(int32(cost)) // #nosec G115 - bounded by bcrypt.MaxCost
	return nil
}

// PasswordCost returns the bcrypt cost currently used by HashPassword.
func PasswordCost() int {
	return int(passwordCost.Load())
}

// HashPassword returns a bcrypt hash. The encoded form carries its own salt
// and cost so VerifyPassword needs nothing else.
func HashPassword(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost())
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password against a bcrypt hash.
// It returns ErrPasswordMismatch when the password is wrong and a different
// error when the stored hash cannot be parsed.
func VerifyPassword(password, encodedHash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrPasswordMismatch
	default:
		return fmt.Errorf("cryptox: verify password: %w", err)
	}
}
