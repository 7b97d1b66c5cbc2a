package service

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var bcryptPrefixes = []string{"$2a$", "$2b$", "$2y$"}

// passwordMatches compares a stored credential with the one presented at
// login. Stored values are opaque and compared for equality unless they are
// bcrypt hashes.
func passwordMatches(stored, given string) bool {
	if stored == "" {
		return false
	}
	for _, prefix := range bcryptPrefixes {
		if strings.HasPrefix(stored, prefix) {
			return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
		}
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}
