package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	contractx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/contract"
	"github.com/xeipuuv/gojsonschema"
)

// Definition is a registered tool: a JSON-schema input contract reflected
// from a Go struct plus the function that serves it.
type Definition struct {
	name        string
	description string
	spec        contractx.ToolSpec
	schema      *gojsonschema.Schema
	run         func(ctx context.Context, raw []byte) (any, error)
}

// New builds a Definition whose input schema is reflected from In. Out must
// be a struct so every success result is a typed record.
func New[In any, Out any](name, description string, fn func(ctx context.Context, in In) (Out, error)) (*Definition, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("tool name is required")
	}
	if fn == nil {
		return nil, fmt.Errorf("tool=%s: handler is nil", name)
	}

	outType := reflect.TypeOf((*Out)(nil)).Elem()
	for outType.Kind() == reflect.Pointer {
		outType = outType.Elem()
	}
	if outType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("tool=%s: output must be a struct, got %s", name, outType.Kind())
	}

	doc, err := reflectInputSchema(reflect.TypeOf((*In)(nil)).Elem())
	if err != nil {
		return nil, fmt.Errorf("tool=%s: %w", name, err)
	}

	loader := gojsonschema.NewSchemaLoader()
	loader.Draft = gojsonschema.Draft7
	loader.AutoDetect = false
	compiled, err := loader.Compile(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("tool=%s: compile input schema: %w", name, err)
	}

	def := &Definition{
		name:        name,
		description: strings.TrimSpace(description),
		schema:      compiled,
		spec:        specFromSchema(name, strings.TrimSpace(description), doc),
	}
	def.run = func(ctx context.Context, raw []byte) (any, error) {
		var in In
		if err := json.Unmarshal(raw, &in); err != nil {
			return nil, fmt.Errorf("%w: decode arguments for %s: %v", contractx.ErrInvalidInput, name, err)
		}
		return fn(ctx, in)
	}
	return def, nil
}

// MustNew is New for package-level registrations; it panics on a broken
// input type.
func MustNew[In any, Out any](name, description string, fn func(ctx context.Context, in In) (Out, error)) *Definition {
	def, err := New(name, description, fn)
	if err != nil {
		panic(err)
	}
	return def
}

func (d *Definition) Name() string {
	return d.name
}

func (d *Definition) Spec() contractx.ToolSpec {
	spec := d.spec
	spec.Required = append([]string(nil), d.spec.Required...)
	return spec
}

// Validate checks args against the input schema.
func (d *Definition) Validate(args map[string]any) error {
	if args == nil {
		args = map[string]any{}
	}
	result, err := d.schema.Validate(gojsonschema.NewGoLoader(args))
	if err != nil {
		return fmt.Errorf("%w: arguments for %s are not valid JSON: %v", contractx.ErrInvalidInput, d.name, err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: invalid arguments for %s: %s", contractx.ErrInvalidInput, d.name, strings.Join(msgs, "; "))
}

// Invoke decodes already validated args into the input struct and runs the
// handler.
func (d *Definition) Invoke(ctx context.Context, args map[string]any) (any, error) {
	if args == nil {
		args = map[string]any{}
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("%w: encode arguments for %s: %v", contractx.ErrInvalidInput, d.name, err)
	}
	return d.run(ctx, raw)
}

func reflectInputSchema(t reflect.Type) (map[string]any, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("input must be a struct, got %s", t.Kind())
	}

	reflector := jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	schema := reflector.ReflectFromType(t)

	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("marshal input schema: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal input schema: %w", err)
	}

	// Validated as draft-7; the reflector stamps a newer dialect.
	delete(doc, "$schema")
	delete(doc, "$id")
	doc["type"] = "object"
	if _, ok := doc["properties"]; !ok {
		doc["properties"] = map[string]any{}
	}
	return doc, nil
}

func specFromSchema(name, description string, doc map[string]any) contractx.ToolSpec {
	spec := contractx.ToolSpec{
		Name:        name,
		Description: description,
		Properties:  map[string]any{},
	}
	if props, ok := doc["properties"].(map[string]any); ok {
		spec.Properties = props
	}
	if required, ok := doc["required"].([]any); ok {
		for _, r := range required {
			if s, ok := r.(string); ok {
				spec.Required = append(spec.Required, s)
			}
		}
	}
	return spec
}
