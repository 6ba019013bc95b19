package application

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

var (
	// ErrInvalidTokenHash indicates a malformed encoded token hash.
	ErrInvalidTokenHash = errors.New("invalid token hash format")
	// ErrIncompatibleTokenVersion indicates an argon2 version this build
	// cannot verify.
	ErrIncompatibleTokenVersion = errors.New("incompatible token hash version")
)

// TokenVerifier checks the shared API credential presented by callers. The
// expected token is configured either as plaintext or as an argon2id encoded
// hash; in both cases verification runs in constant time with respect to the
// presented value.
type TokenVerifier struct {
	token     string
	tokenHash string
}

// NewTokenVerifier builds a verifier from the configured credential. Exactly
// one of token and tokenHash must be non-empty; a supplied hash is parsed
// eagerly so a misconfigured deployment fails on startup, not on the first
// request.
func NewTokenVerifier(token, tokenHash string) (*TokenVerifier, error) {
	token = strings.TrimSpace(token)
	tokenHash = strings.TrimSpace(tokenHash)

	if token == "" && tokenHash == "" {
		return nil, fmt.Errorf("no API token configured")
	}
	if token != "" && tokenHash != "" {
		return nil, fmt.Errorf("both plain and hashed API tokens configured")
	}
	if tokenHash != "" {
		if _, _, _, err := parseTokenHash(tokenHash); err != nil {
			return nil, err
		}
	}

	return &TokenVerifier{token: token, tokenHash: tokenHash}, nil
}

// Authorize reports whether the presented token matches the configured
// credential, returning ErrUnauthorized when it does not.
func (v *TokenVerifier) Authorize(presented string) error {
	if v == nil {
		return ErrUnauthorized
	}

	if v.tokenHash != "" {
		ok, err := verifyTokenHash(v.tokenHash, presented)
		if err != nil {
			return err
		}
		if !ok {
			return ErrUnauthorized
		}
		return nil
	}

	if subtle.ConstantTimeCompare([]byte(v.token), []byte(presented)) != 1 {
		return ErrUnauthorized
	}
	return nil
}

type argon2idParams struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
	keyLength   uint32
}

// HashToken encodes a credential as $argon2id$v=19$m=...,t=...,p=...$salt$hash
// using the supplied salt parameters. Deployments that prefer not to place the
// plaintext token in the environment can store the output in API_TOKEN_HASH.
func HashToken(token string, salt []byte) (string, error) {
	if len(salt) == 0 {
		return "", fmt.Errorf("salt is required")
	}

	params := argon2idParams{memory: 64 * 1024, iterations: 3, parallelism: 2, keyLength: 32}
	key := argon2.IDKey([]byte(token), salt, params.iterations, params.memory, params.parallelism, params.keyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		params.memory, params.iterations, params.parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func verifyTokenHash(encoded, token string) (bool, error) {
	params, salt, expected, err := parseTokenHash(encoded)
	if err != nil {
		return false, err
	}

	key := argon2.IDKey([]byte(token), salt, params.iterations, params.memory, params.parallelism, uint32(len(expected)))
	return subtle.ConstantTimeCompare(key, expected) == 1, nil
}

func parseTokenHash(encoded string) (argon2idParams, []byte, []byte, error) {
	var params argon2idParams

	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return params, nil, nil, ErrInvalidTokenHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return params, nil, nil, ErrInvalidTokenHash
	}
	if version != argon2.Version {
		return params, nil, nil, ErrIncompatibleTokenVersion
	}

	for _, field := range strings.Split(parts[3], ",") {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			return params, nil, nil, ErrInvalidTokenHash
		}
		parsed, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return params, nil, nil, ErrInvalidTokenHash
		}
		switch key {
		case "m":
			params.memory = uint32(parsed)
		case "t":
			params.iterations = uint32(parsed)
		case "p":
			if parsed > 255 {
				return params, nil, nil, ErrInvalidTokenHash
			}
			params.parallelism = uint8(parsed)
		default:
			return params, nil, nil, ErrInvalidTokenHash
		}
	}
	if params.memory == 0 || params.iterations == 0 || params.parallelism == 0 {
		return params, nil, nil, ErrInvalidTokenHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return params, nil, nil, ErrInvalidTokenHash
	}
	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(hash) == 0 {
		return params, nil, nil, ErrInvalidTokenHash
	}
	params.keyLength = uint32(len(hash))

	return params, salt, hash, nil
}
