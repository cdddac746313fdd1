package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"strconv"
	"unicode/utf16"
)

// StructuredData is a rendered JSON-LD script element.
type StructuredData struct {
	ID   string `json:"id"`
	JSON string `json:"json"`
	Tag  string `json:"tag"`
}

// StableHash is a 31-polynomial hash over UTF-16 code units with 32-bit wrap-around,
// rendered in base 36 from its absolute value.
func StableHash(input string) string {
	var h int32
	for _, unit := range utf16.Encode([]rune(input)) {
		h = h*31 + int32(unit)
	}
	abs := int64(h)
	if abs < 0 {
		abs = -abs
	}
	return strconv.FormatInt(abs, 36)
}

// MarshalStructuredData serializes payload without HTML escaping, the form the id is derived from.
func MarshalStructuredData(payload interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return "", fmt.Errorf("marshal structured data: %w", err)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// StructuredDataScript renders payload as an application/ld+json script element.
// When id is empty it is derived from the serialized payload so equal payloads get equal ids.
func StructuredDataScript(id string, payload interface{}) (StructuredData, error) {
	raw, err := MarshalStructuredData(payload)
	if err != nil {
		return StructuredData{}, err
	}
	return scriptElement(id, raw), nil
}

// StructuredDataFromJSON renders a stored JSON document. Invalid JSON is rejected.
// The document is compacted, not re-encoded, so key order and the derived id follow the stored text.
func StructuredDataFromJSON(id, doc string) (StructuredData, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(doc)); err != nil {
		return StructuredData{}, fmt.Errorf("decode structured data: %w", err)
	}
	return scriptElement(id, buf.String()), nil
}

func scriptElement(id, raw string) StructuredData {
	if id == "" {
		id = "jsonld-" + StableHash(raw)
	}

	// The body must not be able to close the script element
	var body bytes.Buffer
	json.HTMLEscape(&body, []byte(raw))

	tag := fmt.Sprintf(`<script id="%s" type="application/ld+json">%s</script>`,
		html.EscapeString(id), body.String())
	return StructuredData{ID: id, JSON: raw, Tag: tag}
}
