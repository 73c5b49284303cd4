package crypto

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/kechcole/Blog-App/internal/common/constants"
)

// PasswordHasher abstracts credential hashing so services can be tested
// without paying the bcrypt cost.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error
}

type BcryptHasher struct{}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), constants.BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h *BcryptHasher) Compare(hash string, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
