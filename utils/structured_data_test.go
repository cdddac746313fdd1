package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStableHash(t *testing.T) {
	tests := map[string]string{
		"":           "0",
		"a":          "2p",
		"ab":         "2e9",
		`{"a":1}`:    "numd4y",
		"\U0001F600": "11zz7", // surrogate pair hashes as two code units
	}
	for in, want := range tests {
		assert.Equal(t, want, StableHash(in), "input %q", in)
	}
}

func TestStructuredDataScript_DerivedID(t *testing.T) {
	payload := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     "MoodLift",
	}
	sd, err := StructuredDataScript("", payload)
	require.NoError(t, err)

	assert.Equal(t, `{"@context":"https://schema.org","@type":"WebSite","name":"MoodLift"}`, sd.JSON)
	assert.Equal(t, "jsonld-9jzuz5", sd.ID)
	assert.Equal(t, `<script id="jsonld-9jzuz5" type="application/ld+json">`+sd.JSON+`</script>`, sd.Tag)

	again, err := StructuredDataScript("", payload)
	require.NoError(t, err)
	assert.Equal(t, sd.ID, again.ID)
}

func TestStructuredDataScript_ExplicitIDAndEscaping(t *testing.T) {
	sd, err := StructuredDataScript(`faq"x`, map[string]string{"name": "</script><script>alert(1)</script>"})
	require.NoError(t, err)

	assert.Equal(t, `faq"x`, sd.ID)
	assert.True(t, strings.HasPrefix(sd.Tag, `<script id="faq&#34;x" type="application/ld+json">`))
	assert.Equal(t, 1, strings.Count(sd.Tag, "</script>"))
	assert.Contains(t, sd.Tag, `\u003c/script\u003e`)
}

func TestStructuredDataFromJSON(t *testing.T) {
	sd, err := StructuredDataFromJSON("", `{"a": 1}`)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, sd.JSON)
	assert.Equal(t, "jsonld-numd4y", sd.ID)

	_, err = StructuredDataFromJSON("", `{"a":`)
	assert.Error(t, err)
}

func TestStructuredDataFromJSON_KeepsStoredKeyOrder(t *testing.T) {
	doc := "{\n  \"name\": \"MoodLift\",\n  \"@type\": \"WebSite\",\n  \"@context\": \"https://schema.org\"\n}"
	sd, err := StructuredDataFromJSON("", doc)
	require.NoError(t, err)

	compact := `{"name":"MoodLift","@type":"WebSite","@context":"https://schema.org"}`
	assert.Equal(t, compact, sd.JSON)
	assert.Equal(t, "jsonld-"+StableHash(compact), sd.ID)
	assert.NotEqual(t, "jsonld-9jzuz5", sd.ID, "sorted-key encoding hashes differently")

	_, err = StructuredDataFromJSON("", `{"a":1} {"b":2}`)
	assert.Error(t, err)
}
