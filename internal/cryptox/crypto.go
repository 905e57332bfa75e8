// Package cryptox holds the key-material helpers for the document store:
// per-object SSE-C encryption keys and argon2id hashing of auth tokens so
// they never have to be configured in the clear.
package cryptox

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/cds-snc/notification-document-download-api/internal/common"
	"golang.org/x/crypto/argon2"
)

// EncryptionKeySize is the length of per-document SSE-C customer keys.
// S3 requires exactly 256 bits for SSECustomerAlgorithm AES256.
const EncryptionKeySize = 32

// GenerateEncryptionKey returns a fresh random 256-bit key for per-object
// server-side encryption. The key is handed back to the uploader and never
// persisted.
func GenerateEncryptionKey() []byte {
	return common.GenerateRandByteArray(EncryptionKeySize)
}

// SSECustomerKeyHeaders returns the base64 key and base64 MD5 digest that
// S3 expects alongside SSECustomerAlgorithm on SSE-C requests.
func SSECustomerKeyHeaders(key []byte) (encodedKey, encodedMD5 string) {
	sum := md5.Sum(key)
	return base64.StdEncoding.EncodeToString(key), base64.StdEncoding.EncodeToString(sum[:])
}

// Auth tokens can be configured either in the clear or hashed at rest as
// "argon2id$<base64 salt>$<base64 hash>".
const hashedTokenPrefix = "argon2id"

const tokenHashSize = 32

func hashToken(token string, salt []byte) []byte {
	return argon2.IDKey([]byte(token), salt, 1, 64*1024, 4, tokenHashSize)
}

// HashAuthToken produces the storable argon2id representation of a token
// with a fresh random salt.
func HashAuthToken(token string) string {
	salt := common.GenerateRandByteArray(16)
	hash := hashToken(token, salt)
	return fmt.Sprintf("%s$%s$%s",
		hashedTokenPrefix,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	)
}

// VerifyAuthToken reports whether the presented token matches the configured
// one. Configured values starting with "argon2id$" are treated as hashed;
// anything else is compared directly. Both paths are constant-time.
func VerifyAuthToken(presented, configured string) bool {
	if !strings.HasPrefix(configured, hashedTokenPrefix+"$") {
		return subtle.ConstantTimeCompare([]byte(presented), []byte(configured)) == 1
	}

	parts := strings.Split(configured, "$")
	if len(parts) != 3 {
		return false
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[2])
	if err != nil {
		return false
	}

	got := hashToken(presented, salt)
	return subtle.ConstantTimeCompare(got, want) == 1
}
