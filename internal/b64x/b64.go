// Package b64x implements the URL-safe, unpadded base64 representation used
// in public document URLs: 22-character UUIDs and 43-character 32-byte keys.
package b64x

import (
	"encoding/base64"

	"github.com/google/uuid"
)

// BytesToBase64 encodes raw bytes using URL-safe base64 with padding
// stripped.
func BytesToBase64(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// Base64ToBytes decodes a URL-safe, unpadded base64 string.
func Base64ToBytes(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(s)
}

// UUIDToBase64 compresses a UUID to its 22-character base64 form.
func UUIDToBase64(id uuid.UUID) string {
	return BytesToBase64(id[:])
}

// Base64ToUUID parses a 22-character base64 UUID.
func Base64ToUUID(s string) (uuid.UUID, error) {
	b, err := Base64ToBytes(s)
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.FromBytes(b)
}
