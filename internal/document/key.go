package document

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Key identifies one edit state: a payload rendered with a template.
// Equal payloads and templates always produce equal keys.
type Key string

// KeyOf hashes the payload's JSON encoding together with its kind and template.
func KeyOf(p Payload, t Template) (Key, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encoding payload: %w", err)
	}
	h := sha256.New()
	h.Write([]byte(p.Kind()))
	h.Write([]byte{0})
	h.Write([]byte(t))
	h.Write([]byte{0})
	h.Write(data)
	return Key(hex.EncodeToString(h.Sum(nil))), nil
}

// Short returns the first 12 hex characters, for logs.
func (k Key) Short() string {
	if len(k) <= 12 {
		return string(k)
	}
	return string(k[:12])
}
