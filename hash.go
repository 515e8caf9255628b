package lingoseo

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashText computes the SHA-256 hash of the trimmed text.
func HashText(text string) string {
	trimmed := strings.TrimSpace(text)
	hash := sha256.Sum256([]byte(trimmed))
	return hex.EncodeToString(hash[:])
}

// Checksum returns the hex SHA-256 of data, used to fingerprint prerendered
// pages in the run report.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// FillKey identifies a machine translation of source text into a locale.
func FillKey(sourceHash, locale string) string {
	return sourceHash + ":" + locale
}
