package ohh

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas
var schemaFiles embed.FS

const handSchemaURL = "https://ohh2stars.dev/schemas/hand.json"

var (
	handSchemaOnce sync.Once
	handSchema     *jsonschema.Schema
	handSchemaErr  error
)

// compileHandSchema loads the embedded hand schema once per process.
func compileHandSchema() (*jsonschema.Schema, error) {
	handSchemaOnce.Do(func() {
		data, err := schemaFiles.ReadFile("schemas/hand.json")
		if err != nil {
			handSchemaErr = fmt.Errorf("failed to read hand schema: %w", err)
			return
		}

		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(handSchemaURL, bytes.NewReader(data)); err != nil {
			handSchemaErr = fmt.Errorf("failed to add hand schema: %w", err)
			return
		}
		handSchema, handSchemaErr = compiler.Compile(handSchemaURL)
		if handSchemaErr != nil {
			handSchemaErr = fmt.Errorf("failed to compile hand schema: %w", handSchemaErr)
		}
	})
	return handSchema, handSchemaErr
}

// ValidateShape checks that data looks like a single OHH hand: the required
// keys are present and carry the right JSON types. It does not check betting
// legality or cross references.
func ValidateShape(data []byte) error {
	schema, err := compileHandSchema()
	if err != nil {
		return err
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("hand shape: %w", err)
	}
	return nil
}
