package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost is the cost factor for bcrypt password hashing.
const bcryptCost = 12

// HashPassword produces a salted bcrypt hash of the plaintext. The salt is
// embedded in the hash, so hashing the same plaintext twice yields different
// outputs.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether the plaintext matches the stored hash.
// Mismatches and malformed hashes both verify as false.
func VerifyPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
