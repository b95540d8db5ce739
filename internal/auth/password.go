package auth

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters (OWASP baseline).
const (
	Memory      = 64 * 1024 // 64 MB
	Iterations  = 3
	Parallelism = 2
	KeyLength   = 32
)

// ErrEmptySalt is returned when the hasher is built without a salt.
var ErrEmptySalt = errors.New("password salt is required")

// PasswordHasher derives argon2id hashes with one salt per deployment, so
// the same password always yields the same stored string.
type PasswordHasher struct {
	salt []byte
}

// NewPasswordHasher returns a hasher using salt for every hash.
func NewPasswordHasher(salt string) (*PasswordHasher, error) {
	if salt == "" {
		return nil, ErrEmptySalt
	}
	return &PasswordHasher{salt: []byte(salt)}, nil
}

// Hash returns the encoded argon2id hash of password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", errors.New("password is empty")
	}
	key := argon2.IDKey([]byte(password), h.salt, Iterations, Memory, Parallelism, KeyLength)

	// Parameters travel with the hash so they can change without breaking old users
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, Memory, Iterations, Parallelism,
		base64.RawStdEncoding.EncodeToString(h.salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

// Verify reports whether password matches encoded. Malformed hashes never match.
func (h *PasswordHasher) Verify(encoded, password string) bool {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false
	}

	var memory, iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return false
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(want) == 0 {
		return false
	}

	got := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, uint32(len(want)))
	return subtle.ConstantTimeCompare(want, got) == 1
}
