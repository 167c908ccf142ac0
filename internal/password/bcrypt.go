package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/medapp-server/internal/model"
)

// MaxLength is the number of password bytes bcrypt takes into account.
const MaxLength = 72

// Bcrypt hashes passwords with bcrypt at a fixed cost.
type Bcrypt struct {
	cost int
}

var _ model.PasswordHasher = (*Bcrypt)(nil)

// NewBcrypt creates a hasher. A zero cost selects bcrypt.DefaultCost.
func NewBcrypt(cost int) *Bcrypt {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

// Hash returns a salted bcrypt hash of password.
func (b *Bcrypt) Hash(password string) (string, error) {
	if len(password) > MaxLength {
		return "", fmt.Errorf("%w: password longer than %d bytes", model.ErrInvalidInput, MaxLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether password matches hash. Any error, including a
// malformed hash, yields false.
func (b *Bcrypt) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
