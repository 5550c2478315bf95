package report

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/kaptinlin/jsonschema"

	"github.com/wWordDevw/terap-ia/internal/core/domain"
)

//go:embed schema/report.schema.json
var schemaJSON []byte

// ErrDigestMismatch is returned when a report body does not match its digest.
var ErrDigestMismatch = errors.New("report digest mismatch")

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// Schema returns the embedded JSON schema of a report document.
func Schema() []byte {
	return bytes.Clone(schemaJSON)
}

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		schema, schemaErr = compiler.Compile(schemaJSON)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile schema: %w", schemaErr)
		}
	})
	return schema, schemaErr
}

// ValidateJSON checks a saved report against the schema and recomputes its digest.
func ValidateJSON(data []byte) (*Document, error) {
	s, err := compiledSchema()
	if err != nil {
		return nil, err
	}
	result := s.ValidateJSON(data)
	if !result.IsValid() {
		return nil, fmt.Errorf("%w: schema validation failed: %v", domain.ErrInvalidInput, result.Errors)
	}

	var envelope struct {
		Report json.RawMessage `json:"report"`
		Digest string          `json:"digest"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	digest, err := Digest(envelope.Report)
	if err != nil {
		return nil, err
	}
	if digest != envelope.Digest {
		return nil, fmt.Errorf("%w: recorded %s, computed %s", ErrDigestMismatch, envelope.Digest, digest)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return &doc, nil
}
