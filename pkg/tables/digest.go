package tables

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Digest fingerprints a rendered artifact with BLAKE2b-256.
func Digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}
