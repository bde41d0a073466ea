// Package hash provides content hashing for cache keys and change detection.
package hash

import (
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
	"io"
)

// ContentKey returns the hex SHA-1 of salt and text. The salt separates
// entries for the same text rendered with different options.
func ContentKey(salt string, text []byte) string {
	hasher := sha1.New()
	_, _ = io.WriteString(hasher, salt)
	_, _ = hasher.Write([]byte{0})
	_, _ = hasher.Write(text)
	return hex.EncodeToString(hasher.Sum(nil))
}

// Version returns a short 8-character fingerprint of data. Two documents
// with the same fingerprint are treated as unchanged by the refresh loop.
func Version(data []byte) string {
	return MD5Sum(data)[:8]
}

// ETag returns a strong HTTP entity tag for data.
func ETag(data []byte) string {
	return `"` + MD5Sum(data)[:16] + `"`
}

// MD5Sum returns the full hex MD5 of data.
func MD5Sum(data []byte) string {
	hasher := md5.New()
	_, _ = hasher.Write(data)
	return hex.EncodeToString(hasher.Sum(nil))
}
