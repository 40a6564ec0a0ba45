package scancode

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestEncodePNGProducesImage(t *testing.T) {
	payload := NewPayload(time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC), "42", "abcdef0123456789")

	data, err := EncodePNG(payload, 256)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Fatalf("expected PNG magic bytes")
	}
}

func TestEncodePNGRejectsOversizedPayload(t *testing.T) {
	payload := NewPayload(time.Now(), "42", "abcdef0123456789").
		WithEmbeddedDoc(strings.Repeat("x", MaxPayloadBytes))

	_, err := EncodePNG(payload, 256)
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge, got %v", err)
	}
}

func TestEncodePNGCeilingIsExclusive(t *testing.T) {
	base := NewPayload(time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC), "42", "abcdef0123456789")
	raw, err := json.Marshal(base)
	if err != nil {
		t.Fatalf("marshal base payload: %v", err)
	}

	// Pad the embedded doc so the serialized payload lands exactly on the
	// ceiling, accounting for the field's own JSON framing.
	framing := len(`,"embeddedDoc":""`)
	pad := MaxPayloadBytes - len(raw) - framing
	atCeiling := base.WithEmbeddedDoc(strings.Repeat("x", pad))

	serialized, err := json.Marshal(atCeiling)
	if err != nil {
		t.Fatalf("marshal padded payload: %v", err)
	}
	if len(serialized) != MaxPayloadBytes {
		t.Fatalf("padded payload serializes to %d bytes, want exactly %d", len(serialized), MaxPayloadBytes)
	}

	if _, err := EncodePNG(atCeiling, 256); !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("payload at the ceiling must be rejected, got %v", err)
	}

	oneUnder := base.WithEmbeddedDoc(strings.Repeat("x", pad-1))
	if _, err := EncodePNG(oneUnder, 256); err != nil {
		t.Fatalf("payload one byte under the ceiling must encode, got %v", err)
	}
}

func TestEncodePNGAcceptsEmbeddedDocUnderCeiling(t *testing.T) {
	payload := NewPayload(time.Now(), "42", "abcdef0123456789").
		WithEmbeddedDoc(strings.Repeat("y", 500))

	if _, err := EncodePNG(payload, 128); err != nil {
		t.Fatalf("encode with embedded doc: %v", err)
	}
}
