package manifest

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

var (
	manifestSchema        *jsonschema.Schema
	libraryManifestSchema *jsonschema.Schema
)

func init() {
	r := &jsonschema.Reflector{DoNotReference: true}
	manifestSchema = r.Reflect(&Manifest{})
	libraryManifestSchema = r.Reflect(&LibraryManifest{})
}

// ValidateSchema checks raw manifest JSON against the schema generated
// from the Manifest struct, reporting a missing required top-level field
// with a clearer message than encoding/json alone gives, before the
// structural checks in Validate run. Field types are not checked here.
func ValidateSchema(data []byte) error {
	return validateAgainst(data, manifestSchema)
}

// ValidateLibraryManifestSchema is ValidateSchema's counterpart for
// library manifest documents (spec §6).
func ValidateLibraryManifestSchema(data []byte) error {
	return validateAgainst(data, libraryManifestSchema)
}

// validateAgainst does a light structural pass: every property the schema
// marks required must be present in the decoded document. Full JSON
// Schema validation (types, enums, nested required) is out of scope for
// this reference check; encoding/json's DisallowUnknownFields plus this
// required-field pass catches the shapes spec §6 calls out.
func validateAgainst(data []byte, schema *jsonschema.Schema) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("not a JSON object: %w", err)
	}
	for _, req := range schema.Required {
		if _, ok := doc[req]; !ok {
			return fmt.Errorf("missing required field %q", req)
		}
	}
	return nil
}
