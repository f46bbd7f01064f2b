package ai

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrUnparseable means a model reply was not JSON matching the expected schema.
var ErrUnparseable = errors.New("unparseable AI response")

var (
	extractionSchema = gojsonschema.NewStringLoader(`{
  "type": "object",
  "properties": {
    "summary":   {"type": "string"},
    "tags":      {"type": "array", "items": {"type": "string"}},
    "keyPoints": {"type": "array", "items": {"type": "string"}}
  }
}`)

	summarySchema = gojsonschema.NewStringLoader(`{
  "type": "object",
  "properties": {
    "summary":   {"type": "string"},
    "keyPoints": {"type": "array", "items": {"type": "string"}}
  }
}`)
)

// ParseStructured decodes a model reply into T. Markdown fences are stripped;
// when the whole body is not JSON the outermost {...} slice is tried. The
// document must validate against schema. Any failure yields ErrUnparseable,
// never a partially filled T.
func ParseStructured[T any](raw string, schema gojsonschema.JSONLoader) (T, error) {
	var zero T

	doc, ok := jsonObject(raw)
	if !ok {
		return zero, ErrUnparseable
	}

	result, err := gojsonschema.Validate(schema, gojsonschema.NewStringLoader(doc))
	if err != nil || !result.Valid() {
		return zero, ErrUnparseable
	}

	var out T
	if err := json.Unmarshal([]byte(doc), &out); err != nil {
		return zero, ErrUnparseable
	}
	return out, nil
}

// jsonObject returns the JSON document embedded in raw.
func jsonObject(raw string) (string, bool) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```JSON")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	if json.Valid([]byte(cleaned)) {
		return cleaned, true
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start >= 0 && end > start {
		if slice := cleaned[start : end+1]; json.Valid([]byte(slice)) {
			return slice, true
		}
	}
	return "", false
}
