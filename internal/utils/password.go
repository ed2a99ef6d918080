package utils

import "golang.org/x/crypto/bcrypt"

// HashSecret returns the bcrypt hash of a supplier credential secret
// using the given cost.  Used by onboarding tooling; the service itself
// only verifies.
func HashSecret(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares a stored bcrypt hash and a plain secret.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
