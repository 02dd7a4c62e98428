package auth

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/storefront/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns a bcrypt hash of password. bcrypt generates and
// embeds a fresh salt for every call.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("%w: password longer than 72 bytes", common.ErrValidation)
		}
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash. The comparison is
// constant time with respect to the password.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

var (
	dummyOnce sync.Once
	dummyHash string
)

// BurnPasswordCheck performs a comparison against a throwaway hash so a login
// for an unknown email costs the same as one with a wrong password.
func BurnPasswordCheck(password string) {
	dummyOnce.Do(func() {
		h, _ := bcrypt.GenerateFromPassword([]byte("storefront-dummy"), bcrypt.DefaultCost)
		dummyHash = string(h)
	})
	_ = CheckPassword(dummyHash, password)
}
