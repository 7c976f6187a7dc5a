// SPDX-License-Identifier: MPL-2.0

package config

import (
	"reflect"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// These tests verify Go struct mapstructure tags match CUE schema field
// names. They catch misalignments at CI time, preventing values that
// silently fall back to defaults.

// cueFields extracts the top-level field names of a CUE struct definition.
func cueFields(t *testing.T, val cue.Value) map[string]bool {
	t.Helper()

	fields := make(map[string]bool)
	iter, err := val.Fields(cue.Definitions(false), cue.Optional(true))
	if err != nil {
		t.Fatalf("failed to iterate CUE fields: %v", err)
	}
	for iter.Next() {
		sel := iter.Selector()
		if sel.LabelType().IsHidden() || sel.IsDefinition() {
			continue
		}
		fields[sel.Unquoted()] = true
	}
	return fields
}

// structTags extracts the mapstructure tag of every field of a struct type.
func structTags(t *testing.T, typ reflect.Type) map[string]bool {
	t.Helper()

	tags := make(map[string]bool)
	for i := range typ.NumField() {
		tag := typ.Field(i).Tag.Get("mapstructure")
		if tag == "" || tag == "-" {
			t.Fatalf("field %s.%s has no mapstructure tag", typ.Name(), typ.Field(i).Name)
		}
		tags[tag] = true
	}
	return tags
}

func schemaDef(t *testing.T, path string) cue.Value {
	t.Helper()

	ctx := cuecontext.New()
	schema := ctx.CompileString(configSchema)
	if schema.Err() != nil {
		t.Fatalf("failed to compile config schema: %v", schema.Err())
	}
	val := schema.LookupPath(cue.ParsePath(path))
	if val.Err() != nil {
		t.Fatalf("definition %s not found: %v", path, val.Err())
	}
	return val
}

func TestSchemaMatchesStructs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		typ  reflect.Type
	}{
		{name: "Config", path: "#Config", typ: reflect.TypeOf(Config{})},
		{name: "ExportConfig", path: "#Config.export", typ: reflect.TypeOf(ExportConfig{})},
		{name: "ServerConfig", path: "#Config.server", typ: reflect.TypeOf(ServerConfig{})},
		{name: "UIConfig", path: "#Config.ui", typ: reflect.TypeOf(UIConfig{})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			schema := cueFields(t, schemaDef(t, tt.path))
			tags := structTags(t, tt.typ)

			for field := range schema {
				if !tags[field] {
					t.Errorf("schema field %q has no %s struct field", field, tt.name)
				}
			}
			for tag := range tags {
				if !schema[tag] {
					t.Errorf("struct tag %q is not in the %s schema", tag, tt.path)
				}
			}
		})
	}
}

func TestDefaultsSatisfySchema(t *testing.T) {
	t.Parallel()

	ctx := cuecontext.New()
	schema := ctx.CompileString(configSchema).LookupPath(cue.ParsePath("#Config"))
	generated := ctx.CompileString(GenerateCUE(DefaultConfig()))
	if generated.Err() != nil {
		t.Fatalf("generated default config does not compile: %v", generated.Err())
	}
	if err := schema.Unify(generated).Validate(cue.Concrete(false)); err != nil {
		t.Errorf("generated default config violates the schema: %v", err)
	}
}
