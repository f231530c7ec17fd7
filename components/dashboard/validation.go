package dashboard

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var embeddedSchemas embed.FS

// ErrInvalidPayload reports a request body that does not match its schema.
var ErrInvalidPayload = errors.New("dashboard: invalid payload")

// PayloadKind names an embedded request schema.
type PayloadKind string

const (
	PayloadOrderCandidate PayloadKind = "order_candidate"
	PayloadTableAction    PayloadKind = "table_action"
	PayloadLayoutAction   PayloadKind = "layout_action"
)

// PayloadValidator checks raw JSON bodies before they are decoded.
type PayloadValidator interface {
	ValidatePayload(kind PayloadKind, raw []byte) error
}

// SchemaValidator compiles the embedded schemas lazily and caches them.
type SchemaValidator struct {
	mu       sync.RWMutex
	compiled map[PayloadKind]*jsonschema.Schema
}

// NewSchemaValidator builds a validator backed by jsonschema v5.
func NewSchemaValidator() *SchemaValidator {
	return &SchemaValidator{
		compiled: make(map[PayloadKind]*jsonschema.Schema),
	}
}

// ValidatePayload ensures raw satisfies the schema registered for kind.
func (v *SchemaValidator) ValidatePayload(kind PayloadKind, raw []byte) error {
	schema, err := v.schemaFor(kind)
	if err != nil {
		return err
	}
	var doc any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidPayload, kind, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidPayload, kind, err)
	}
	return nil
}

// DecodeCandidate validates raw against the order schema, decodes it and
// runs the struct rules.
func (v *SchemaValidator) DecodeCandidate(raw []byte) (OrderCandidate, error) {
	var candidate OrderCandidate
	if err := decodeValidated(v, PayloadOrderCandidate, raw, &candidate); err != nil {
		return OrderCandidate{}, err
	}
	candidate = candidate.Normalized()
	if err := candidate.Validate(); err != nil {
		return OrderCandidate{}, err
	}
	return candidate, nil
}

// DecodeTableAction validates and decodes a table action body.
func (v *SchemaValidator) DecodeTableAction(raw []byte) (TableAction, error) {
	var action TableAction
	err := decodeValidated(v, PayloadTableAction, raw, &action)
	return action, err
}

// DecodeLayoutAction validates and decodes a layout action body.
func (v *SchemaValidator) DecodeLayoutAction(raw []byte) (LayoutAction, error) {
	var action LayoutAction
	err := decodeValidated(v, PayloadLayoutAction, raw, &action)
	return action, err
}

func decodeValidated(v PayloadValidator, kind PayloadKind, raw []byte, target any) error {
	if err := v.ValidatePayload(kind, raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidPayload, kind, err)
	}
	return nil
}

func (v *SchemaValidator) schemaFor(kind PayloadKind) (*jsonschema.Schema, error) {
	v.mu.RLock()
	schema, ok := v.compiled[kind]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}
	name := "schemas/" + string(kind) + ".json"
	data, err := embeddedSchemas.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("dashboard: unknown schema %s: %w", kind, err)
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("dashboard: load schema %s: %w", kind, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("dashboard: compile schema %s: %w", kind, err)
	}
	v.mu.Lock()
	v.compiled[kind] = compiled
	v.mu.Unlock()
	return compiled, nil
}
