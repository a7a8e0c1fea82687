package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Locator names exactly one of a Wasm artifact path or an opaque native
// table key for a single lib://... implementation.
type Locator struct {
	Wasm   string `json:"Wasm,omitempty"`
	Native string `json:"Native,omitempty"`
}

// Valid reports that a Locator names exactly one alternative.
func (l Locator) Valid() bool {
	return (l.Wasm != "") != (l.Native != "")
}

// LibraryManifest is the JSON document describing one library's exported
// implementations, per spec §6.
type LibraryManifest struct {
	Name     string             `json:"name"`
	Version  string             `json:"version"`
	Authors  []string           `json:"authors,omitempty"`
	Locators map[string]Locator `json:"locators"`
}

// DecodeLibraryManifest parses a library manifest, rejecting unknown
// fields and invalid locators.
func DecodeLibraryManifest(data []byte) (*LibraryManifest, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var lm LibraryManifest
	if err := dec.Decode(&lm); err != nil {
		return nil, fmt.Errorf("decoding library manifest: %w", err)
	}
	for ref, loc := range lm.Locators {
		if !loc.Valid() {
			return nil, fmt.Errorf("locator %q must name exactly one of Wasm or Native", ref)
		}
	}
	return &lm, nil
}
