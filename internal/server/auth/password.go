package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/dmitrijs2005/pivault/internal/common"
)

// Argon2Params fixes the cost of password hashing for a deployment. The
// parameters are encoded into every hash, so Verify always re-derives with
// the stored parameters and NeedsRehash can detect drift after a config
// change.
type Argon2Params struct {
	Time        uint32
	MemoryKB    uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultArgon2Params matches the deployment defaults: t=3, m=64 MiB, p=4.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Time:        3,
		MemoryKB:    64 * 1024,
		Parallelism: 4,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// PasswordHasher hashes and verifies passwords with argon2id. Instances are
// immutable after construction and safe for concurrent use.
type PasswordHasher struct {
	params Argon2Params
}

func NewPasswordHasher(p Argon2Params) *PasswordHasher {
	return &PasswordHasher{params: p}
}

// Hash derives an argon2id hash of password with a fresh random salt and
// returns it in PHC string format ($argon2id$v=19$m=...,t=...,p=...$salt$hash).
func (h *PasswordHasher) Hash(password string) (string, error) {
	salt := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	key := argon2.IDKey([]byte(password), salt,
		h.params.Time, h.params.MemoryKB, h.params.Parallelism, h.params.KeyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.params.MemoryKB, h.params.Time, h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether password matches encodedHash. The comparison is
// constant-time. A malformed hash is an error, not a mismatch.
func (h *PasswordHasher) Verify(encodedHash, password string) (bool, error) {
	params, salt, key, err := decodeHash(encodedHash)
	if err != nil {
		return false, err
	}

	candidate := argon2.IDKey([]byte(password), salt,
		params.Time, params.MemoryKB, params.Parallelism, uint32(len(key)))

	return subtle.ConstantTimeCompare(candidate, key) == 1, nil
}

// NeedsRehash reports whether encodedHash was produced with parameters
// weaker than the hasher's current ones. Callers may rehash on next login.
func (h *PasswordHasher) NeedsRehash(encodedHash string) (bool, error) {
	params, _, key, err := decodeHash(encodedHash)
	if err != nil {
		return false, err
	}
	if params.Time < h.params.Time || params.MemoryKB < h.params.MemoryKB ||
		params.Parallelism < h.params.Parallelism || uint32(len(key)) != h.params.KeyLength {
		return true, nil
	}
	return false, nil
}

func decodeHash(encodedHash string) (Argon2Params, []byte, []byte, error) {
	var params Argon2Params

	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return params, nil, nil, fmt.Errorf("%w: malformed password hash", common.ErrorInternal)
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return params, nil, nil, fmt.Errorf("%w: malformed password hash", common.ErrorInternal)
	}
	if version != argon2.Version {
		return params, nil, nil, fmt.Errorf("%w: unsupported argon2 version %d", common.ErrorInternal, version)
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d",
		&params.MemoryKB, &params.Time, &params.Parallelism); err != nil {
		return params, nil, nil, fmt.Errorf("%w: malformed password hash", common.ErrorInternal)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return params, nil, nil, fmt.Errorf("%w: malformed password hash", common.ErrorInternal)
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return params, nil, nil, fmt.Errorf("%w: malformed password hash", common.ErrorInternal)
	}

	return params, salt, key, nil
}
