// AngelaMos | 2026
// security.go

package core

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
)

const (
	saltLength         = 16
	refreshTokenLength = 32
)

var errMalformedHash = errors.New("malformed password hash")

// argon2Params are the argon2id cost settings encoded into every stored
// hash. Hashes produced under different settings still verify and are
// flagged for rehashing.
type argon2Params struct {
	memory  uint32
	time    uint32
	threads uint8
	keyLen  uint32
}

var currentParams = argon2Params{
	memory:  64 * 1024,
	time:    1,
	threads: 4,
	keyLen:  32,
}

func (p argon2Params) key(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, p.time, p.memory, p.threads, p.keyLen)
}

// encode renders the PHC string form: $argon2id$v=19$m=...,t=...,p=...$salt$hash
func (p argon2Params) encode(salt, key []byte) string {
	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		p.memory,
		p.time,
		p.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
}

type storedHash struct {
	params argon2Params
	salt   []byte
	key    []byte
}

func parseStoredHash(encoded string) (*storedHash, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return nil, errMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return nil, fmt.Errorf("%w: version %q", errMalformedHash, parts[2])
	}

	h := &storedHash{}
	if _, err := fmt.Sscanf(
		parts[3],
		"m=%d,t=%d,p=%d",
		&h.params.memory,
		&h.params.time,
		&h.params.threads,
	); err != nil {
		return nil, fmt.Errorf("%w: params: %w", errMalformedHash, err)
	}

	var err error
	if h.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, fmt.Errorf("%w: salt: %w", errMalformedHash, err)
	}
	if h.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return nil, fmt.Errorf("%w: key: %w", errMalformedHash, err)
	}

	//nolint:gosec // G115: argon2 keys are a few dozen bytes
	h.params.keyLen = uint32(len(h.key))

	return h, nil
}

func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	return currentParams.encode(salt, currentParams.key(password, salt)), nil
}

func VerifyPassword(password, encodedHash string) (bool, error) {
	h, err := parseStoredHash(encodedHash)
	if err != nil {
		return false, err
	}

	return subtle.ConstantTimeCompare(h.key, h.params.key(password, h.salt)) == 1, nil
}

var (
	dummyOnce sync.Once
	dummyHash string
)

// VerifyPasswordTimingSafe checks password against encodedHash. With no
// stored hash it still spends one full argon2 derivation and reports a
// mismatch, so unknown accounts cost the same as wrong passwords. When
// the stored hash uses outdated parameters and the password matches, a
// fresh hash is returned for the caller to persist.
func VerifyPasswordTimingSafe(
	password string,
	encodedHash *string,
) (bool, string, error) {
	if encodedHash == nil || *encodedHash == "" {
		dummyOnce.Do(func() {
			dummyHash, _ = HashPassword("placeholder-for-unknown-accounts") //nolint:errcheck // an empty hash still fails
		})
		_, _ = VerifyPassword(password, dummyHash) //nolint:errcheck // result is discarded
		return false, "", nil
	}

	h, err := parseStoredHash(*encodedHash)
	if err != nil {
		return false, "", err
	}

	if subtle.ConstantTimeCompare(h.key, h.params.key(password, h.salt)) != 1 {
		return false, "", nil
	}

	if h.params == currentParams {
		return true, "", nil
	}

	rehashed, err := HashPassword(password)
	if err != nil {
		//nolint:nilerr // the password matched; a failed rehash waits for the next login
		return true, "", nil
	}
	return true, rehashed, nil
}

// GenerateRefreshToken returns an opaque URL safe token. Only its HashToken
// digest is ever stored.
func GenerateRefreshToken() (string, error) {
	b := make([]byte, refreshTokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
