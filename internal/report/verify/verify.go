// Package verify produces the verification block printed on reports: a
// display timestamp plus a content hash. The hash is a verification code for
// authenticity display, not a security credential.
package verify

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Token is the per-report verification block.
type Token struct {
	DisplayTimestamp string
	Hash             string
}

// HashPrefixLen is the number of hex characters embedded in scannable payloads.
const HashPrefixLen = 16

// Generate builds the verification token for orgRef at the given instant.
// Deterministic for the same (second, orgRef) pair since the compact
// timestamp has second resolution.
func Generate(now time.Time, orgRef string) Token {
	display := now.Format("02/01/2006 15:04:05")
	compact := now.Format("20060102150405")

	sum := sha256.Sum256([]byte(compact + orgRef))
	return Token{
		DisplayTimestamp: display,
		Hash:             hex.EncodeToString(sum[:]),
	}
}

// HashPrefix returns the truncated hash used in scannable payloads.
func (t Token) HashPrefix() string {
	if len(t.Hash) < HashPrefixLen {
		return t.Hash
	}
	return t.Hash[:HashPrefixLen]
}
