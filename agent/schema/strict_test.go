package schema

import (
	"reflect"
	"testing"
)

func TestStrictRequiresEveryProperty(t *testing.T) {
	in := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"departure_location": map[string]any{"type": "string"},
			"arrival_location":   map[string]any{"type": "string"},
			"departure_date":     map[string]any{"type": "string"},
		},
		"required": []any{"departure_location"},
	}

	out := Strict(in)

	want := []string{"arrival_location", "departure_date", "departure_location"}
	if got, ok := out["required"].([]string); !ok || !reflect.DeepEqual(got, want) {
		t.Fatalf("required = %v, want %v", out["required"], want)
	}
	if out["additionalProperties"] != false {
		t.Fatalf("additionalProperties = %v, want false", out["additionalProperties"])
	}
}

func TestStrictStripsDisallowedKeywords(t *testing.T) {
	in := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"adults": map[string]any{
				"type":     "string",
				"default":  "1",
				"examples": []any{"1", "2"},
			},
			"city_code": map[string]any{
				"type": "string",
				"enum": []any{"MAA", "NYC"},
			},
		},
	}

	out := Strict(in)

	props := out["properties"].(map[string]any)
	adults := props["adults"].(map[string]any)
	for _, key := range []string{"default", "examples"} {
		if _, ok := adults[key]; ok {
			t.Errorf("adults kept %q: %v", key, adults)
		}
	}
	city := props["city_code"].(map[string]any)
	if _, ok := city["enum"]; ok {
		t.Errorf("city_code kept enum: %v", city)
	}
	if adults["type"] != "string" || city["type"] != "string" {
		t.Errorf("type keywords were not preserved: %v", props)
	}
}

func TestStrictRecursesIntoNestedObjects(t *testing.T) {
	in := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"passenger": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name": map[string]any{"type": "string", "default": "anonymous"},
					"age":  map[string]any{"type": "integer"},
				},
				"required": []any{"name"},
			},
		},
	}

	out := Strict(in)

	passenger := out["properties"].(map[string]any)["passenger"].(map[string]any)
	want := []string{"age", "name"}
	if got, ok := passenger["required"].([]string); !ok || !reflect.DeepEqual(got, want) {
		t.Fatalf("nested required = %v, want %v", passenger["required"], want)
	}
	name := passenger["properties"].(map[string]any)["name"].(map[string]any)
	if _, ok := name["default"]; ok {
		t.Fatalf("nested default survived: %v", name)
	}
	if _, ok := passenger["additionalProperties"]; ok {
		t.Fatalf("additionalProperties leaked into nested object: %v", passenger)
	}
}

func TestStrictDoesNotMutateInput(t *testing.T) {
	props := map[string]any{
		"city": map[string]any{"type": "string", "enum": []any{"Paris"}},
	}
	in := map[string]any{"type": "object", "properties": props, "required": []any{}}

	_ = Strict(in)

	if _, ok := in["additionalProperties"]; ok {
		t.Fatalf("input gained additionalProperties: %v", in)
	}
	if _, ok := props["city"].(map[string]any)["enum"]; !ok {
		t.Fatalf("input enum was removed: %v", props)
	}
}
