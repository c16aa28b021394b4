package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSONObject_BareObject(t *testing.T) {
	obj, ok := ExtractJSONObject(`{"intent":"chitchat"}`)
	assert.True(t, ok)
	assert.Equal(t, `{"intent":"chitchat"}`, obj)
}

func TestExtractJSONObject_SurroundingProse(t *testing.T) {
	raw := "Sure! Here is the classification:\n{\"intent\":\"search_jobs\",\"query\":\"flutter\"}\nHope that helps."
	obj, ok := ExtractJSONObject(raw)
	assert.True(t, ok)
	assert.Equal(t, `{"intent":"search_jobs","query":"flutter"}`, obj)
}

func TestExtractJSONObject_MarkdownFence(t *testing.T) {
	raw := "```json\n{\"intent\":\"chitchat\"}\n```"
	obj, ok := ExtractJSONObject(raw)
	assert.True(t, ok)
	assert.Equal(t, `{"intent":"chitchat"}`, obj)
}

func TestExtractJSONObject_NestedBraces(t *testing.T) {
	raw := `{"a":{"b":{"c":1}},"d":2} trailing {"ignored":true}`
	obj, ok := ExtractJSONObject(raw)
	assert.True(t, ok)
	assert.Equal(t, `{"a":{"b":{"c":1}},"d":2}`, obj)
}

func TestExtractJSONObject_BracesInsideStrings(t *testing.T) {
	raw := `{"note":"a } b { c","x":"\"{"}`
	obj, ok := ExtractJSONObject(raw)
	assert.True(t, ok)
	assert.Equal(t, raw, obj)
}

func TestExtractJSONObject_NoObject(t *testing.T) {
	_, ok := ExtractJSONObject("no json here")
	assert.False(t, ok)

	_, ok = ExtractJSONObject(`{"unterminated": true`)
	assert.False(t, ok)
}
