// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/google/uuid"
)

var ErrInvalidID = errors.New("invalid id format")

// UnknownOrigin is used when no address can be derived from the request
const UnknownOrigin = "unknown-ip"

// NewID creates a random UUIDv4 string for database records
func NewID() string {
	return uuid.NewString()
}

// NormalizeID parses id and returns its canonical lowercase form
func NormalizeID(id string) (string, error) {
	if id == "" {
		return "", ErrInvalidID
	}
	u, err := uuid.Parse(id)
	if err != nil {
		return "", ErrInvalidID
	}
	return u.String(), nil
}

// OriginToken derives the opaque voter identity from a network address.
// The same address and salt always give the same token, and the raw
// address is never stored.
func OriginToken(ip, salt string) string {
	if ip == "" {
		ip = UnknownOrigin
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// 128 bits is plenty for per-poll deduplication
	return hex.EncodeToString(sum[:16])
}
