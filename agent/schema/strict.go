// Package schema rewrites tool input schemas into the strict form accepted by
// the OpenAI function-calling API.
package schema

import "sort"

// Keywords the strict schema mode rejects.
var disallowedKeywords = map[string]struct{}{
	"default":  {},
	"examples": {},
	"enum":     {},
}

// Strict returns a deep copy of the schema with disallowed keywords stripped,
// every declared property forced into the required list (declared optionality
// is discarded), and additionalProperties pinned to false at the top level.
// The input is never mutated.
func Strict(s map[string]any) map[string]any {
	out := clean(s)
	out["additionalProperties"] = false
	return out
}

func clean(s map[string]any) map[string]any {
	out := make(map[string]any, len(s))
	for key, value := range s {
		switch key {
		case "properties":
			props, ok := value.(map[string]any)
			if !ok {
				out[key] = value
				continue
			}
			cleaned := make(map[string]any, len(props))
			required := make([]string, 0, len(props))
			for name, sub := range props {
				cleaned[name] = cleanValue(sub)
				required = append(required, name)
			}
			sort.Strings(required)
			out[key] = cleaned
			out["required"] = required
		case "required":
			// Replaced wholesale when properties are present.
		default:
			if _, drop := disallowedKeywords[key]; drop {
				continue
			}
			out[key] = cleanValue(value)
		}
	}
	return out
}

// cleanValue recurses into nested objects; any non-mapping value is returned
// unchanged.
func cleanValue(v any) any {
	if m, ok := v.(map[string]any); ok {
		return clean(m)
	}
	return v
}
