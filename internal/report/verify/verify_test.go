package verify

import (
	"testing"
	"time"
)

func TestGenerateDeterministicWithinSecond(t *testing.T) {
	base := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

	a := Generate(base, "42")
	b := Generate(base.Add(500*time.Millisecond), "42")

	if a.Hash != b.Hash {
		t.Fatalf("expected identical hashes within the same second, got %s and %s", a.Hash, b.Hash)
	}
	if a.DisplayTimestamp != "14/03/2026 15:09:26" {
		t.Fatalf("unexpected display timestamp %s", a.DisplayTimestamp)
	}
}

func TestGenerateVariesAcrossSeconds(t *testing.T) {
	base := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

	a := Generate(base, "42")
	b := Generate(base.Add(time.Second), "42")

	if a.Hash == b.Hash {
		t.Fatalf("expected different hashes across seconds")
	}
}

func TestGenerateVariesByOrg(t *testing.T) {
	base := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

	a := Generate(base, "42")
	b := Generate(base, "43")

	if a.Hash == b.Hash {
		t.Fatalf("expected different hashes for different organizations")
	}
}

func TestHashPrefix(t *testing.T) {
	token := Generate(time.Now(), "42")

	prefix := token.HashPrefix()
	if len(prefix) != HashPrefixLen {
		t.Fatalf("expected prefix length %d, got %d", HashPrefixLen, len(prefix))
	}
	if token.Hash[:HashPrefixLen] != prefix {
		t.Fatalf("prefix must be the leading characters of the hash")
	}
}
