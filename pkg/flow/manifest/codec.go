package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Encode serializes m to indented JSON, the reference manifest codec per
// spec §4.6.
func Encode(m *Manifest) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses manifest JSON, rejecting unknown fields per spec §6
// ("Unknown fields rejected").
func Decode(data []byte) (*Manifest, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}
	return &m, nil
}

// Equivalent reports whether two manifests are byte-equivalent modulo
// whitespace, used to check the idempotent-manifest property (spec §8.6):
// parse then re-emit and compare.
func Equivalent(a, b *Manifest) (bool, error) {
	ja, err := Encode(a)
	if err != nil {
		return false, err
	}
	jb, err := Encode(b)
	if err != nil {
		return false, err
	}
	var na, nb any
	if err := json.Unmarshal(ja, &na); err != nil {
		return false, err
	}
	if err := json.Unmarshal(jb, &nb); err != nil {
		return false, err
	}
	canonA, err := json.Marshal(na)
	if err != nil {
		return false, err
	}
	canonB, err := json.Marshal(nb)
	if err != nil {
		return false, err
	}
	return bytes.Equal(canonA, canonB), nil
}
