package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/bl-generator/internal/entity"
)

const schemaURL = "bl_record.schema.json"

var (
	recordFields = jsonFields(reflect.TypeOf(entity.InvoiceRecord{}), "goods")
	goodsFields  = jsonFields(reflect.TypeOf(entity.GoodsLine{}))
)

// jsonFields lists the JSON names of t's fields, minus the ones in skip.
func jsonFields(t reflect.Type, skip ...string) []string {
	var names []string
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name == "" || name == "-" || slices.Contains(skip, name) {
			continue
		}
		names = append(names, name)
	}
	return names
}

func stringProperties(names []string) map[string]any {
	props := make(map[string]any, len(names))
	for _, n := range names {
		props[n] = map[string]any{"type": "string"}
	}
	return props
}

// recordSchema describes a sanitised record: every known key is a string and
// goods is a list of objects of strings.
func recordSchema() map[string]any {
	props := stringProperties(recordFields)
	props["goods"] = map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":                 "object",
			"properties":           stringProperties(goodsFields),
			"additionalProperties": false,
		},
	}
	return map[string]any{
		"$schema":              "https://json-schema.org/draft/2020-12/schema",
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
	}
}

func compileSchema() (*jsonschema.Schema, error) {
	raw, err := json.Marshal(recordSchema())
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(schemaURL, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	return c.Compile(schemaURL)
}
