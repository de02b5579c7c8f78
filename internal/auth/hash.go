package auth

import "golang.org/x/crypto/bcrypt"

// Hash derives a one-way digest of the plaintext password. bcrypt embeds a
// per-password salt, so two digests of the same plaintext differ; use
// Verify, never string comparison.
func Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches the stored digest.
func Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
