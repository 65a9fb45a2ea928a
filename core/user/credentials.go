package user

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Credentials maps an identity id to its secret. There is one map per role.
type Credentials map[string]string

// Match compares a candidate against the secret stored for id.
// Plain secrets match on exact equality; bcrypt hashes are compared as such.
func (c Credentials) Match(id, candidate string) bool {
	stored, ok := c[id]
	if !ok {
		return false
	}
	return matchSecret(stored, candidate)
}

func matchSecret(stored, candidate string) bool {
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)) == nil
	}
	return stored == candidate
}

func isBcryptHash(s string) bool {
	return len(s) == 60 && (strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$"))
}

// secretHasher prepares a secret for storage.
type secretHasher func(secret string) (string, error)

func plainSecret(secret string) (string, error) { return secret, nil }

func bcryptSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
