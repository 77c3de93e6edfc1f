package common

import (
	"crypto/rand"
	"encoding/base64"
)

// MakeRandBase64String generates size random bytes and returns them
// base64-encoded. The result is used as an opaque refresh-token value, so
// the bytes must come from a cryptographically secure source.
//
// It returns an error if the random number generator fails.
func MakeRandBase64String(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}
