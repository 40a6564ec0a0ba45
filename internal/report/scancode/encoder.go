// Package scancode encodes the report verification payload into a QR image.
package scancode

import (
	"bytes"
	"encoding/json"
	"errors"
	"image/png"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
)

// MaxPayloadBytes is the ceiling for the serialized payload. Payloads at or
// over the ceiling fail before any encoding work so the caller can retry with
// a reduced one.
const MaxPayloadBytes = 2000

// ErrPayloadTooLarge is returned when the serialized payload reaches MaxPayloadBytes.
var ErrPayloadTooLarge = errors.New("payload_too_large")

// Payload is the JSON document embedded in the scannable code.
type Payload struct {
	Type        string `json:"type"`
	Timestamp   string `json:"timestamp"`
	OrgRef      string `json:"orgRef"`
	HashPrefix  string `json:"hashPrefix"`
	EmbeddedDoc string `json:"embeddedDoc,omitempty"`
}

// NewPayload builds the standard assignments payload.
func NewPayload(generatedAt time.Time, orgRef, hashPrefix string) Payload {
	return Payload{
		Type:       "assignments",
		Timestamp:  generatedAt.Format(time.RFC3339),
		OrgRef:     orgRef,
		HashPrefix: hashPrefix,
	}
}

// WithEmbeddedDoc returns a copy of the payload carrying the compact summary document.
func (p Payload) WithEmbeddedDoc(doc string) Payload {
	p.EmbeddedDoc = doc
	return p
}

// EncodePNG serializes the payload and renders it as a square QR PNG of the
// given pixel size. The size guard runs before the encoder is touched.
func EncodePNG(payload Payload, size int) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	if len(raw) >= MaxPayloadBytes {
		return nil, ErrPayloadTooLarge
	}

	code, err := qr.Encode(string(raw), qr.M, qr.Auto)
	if err != nil {
		return nil, err
	}
	code, err = barcode.Scale(code, size, size)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, code); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
