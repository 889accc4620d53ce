package metadata

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
)

// sanitize coerces loosely typed JSON into the record shape: numbers and
// booleans become strings, null becomes "", unknown keys are dropped and a
// null goods list becomes empty. Values of any other type are left for the
// schema to reject. The names of dropped keys are returned.
func sanitize(v any) (any, []string) {
	obj, ok := v.(map[string]any)
	if !ok {
		return v, nil
	}
	out := sanitizeObject(obj, recordFields)
	dropped := unknownKeys(obj, recordFields, "")

	switch goods := obj["goods"].(type) {
	case nil:
		out["goods"] = []any{}
	case []any:
		lines := make([]any, 0, len(goods))
		for i, g := range goods {
			if line, ok := g.(map[string]any); ok {
				lines = append(lines, sanitizeObject(line, goodsFields))
				dropped = append(dropped, unknownKeys(line, goodsFields, fmt.Sprintf("goods[%d].", i))...)
				continue
			}
			lines = append(lines, g)
		}
		out["goods"] = lines
	default:
		out["goods"] = goods
	}
	return out, dropped
}

func unknownKeys(obj map[string]any, fields []string, prefix string) []string {
	var keys []string
	for k := range obj {
		if k == "goods" && prefix == "" {
			continue
		}
		if !slices.Contains(fields, k) {
			keys = append(keys, prefix+k)
		}
	}
	slices.Sort(keys)
	return keys
}

func sanitizeObject(obj map[string]any, fields []string) map[string]any {
	out := make(map[string]any, len(fields)+1)
	for _, name := range fields {
		v, present := obj[name]
		if !present {
			continue
		}
		out[name] = coerceString(v)
	}
	return out
}

func coerceString(v any) any {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return v
	}
}
