package auth

import (
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// generates the hash of the given password using the default cost (salt is created automatically by bcrypt)
func HashPassword(plain string) (hash string, err error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		err = errors.Wrap(err, "hash generation failed")
		return
	}
	hash = string(h)
	return
}

// returns nil on match, error otherwise
func MatchPassword(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}
