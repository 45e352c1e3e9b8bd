package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// FingerprintConfig holds the Argon2id parameters used to fingerprint card numbers
type FingerprintConfig struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	KeyLength   uint32
}

// DefaultFingerprintConfig returns the default configuration for card fingerprints
func DefaultFingerprintConfig() *FingerprintConfig {
	return &FingerprintConfig{
		Memory:      16 * 1024, // 16 MB
		Iterations:  2,
		Parallelism: 2,
		KeyLength:   32,
	}
}

// CardFingerprint derives a stable, non-reversible identifier for a card
// number. The same number and salt always give the same fingerprint, so
// repeated submissions with one card can be correlated without storing it.
func CardFingerprint(cardNumber string, salt []byte) (string, error) {
	digits := DigitsOnly(cardNumber)
	if digits == "" {
		return "", fmt.Errorf("card number has no digits")
	}
	if len(salt) < 8 {
		return "", fmt.Errorf("fingerprint salt must be at least 8 bytes, got %d", len(salt))
	}

	config := DefaultFingerprintConfig()
	key := argon2.IDKey([]byte(digits), salt, config.Iterations, config.Memory, config.Parallelism, config.KeyLength)
	return hex.EncodeToString(key), nil
}

// SecureCompare compares two secrets in constant time
func SecureCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// GenerateSecureToken generates a cryptographically secure random token
func GenerateSecureToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure token: %w", err)
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}
