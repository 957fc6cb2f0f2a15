package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanJSONResponseFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, cleanJSONResponse("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, cleanJSONResponse("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, cleanJSONResponse(`{"a":1}`))
}

func TestCleanJSONResponseCommentsAndTrailingCommas(t *testing.T) {
	in := "{\n  \"a\": 1, // the answer\n  \"b\": [1, 2,],\n}"
	out := cleanJSONResponse(in)

	var v map[string]any
	err := decodeJSON(out, &v)
	require.NoError(t, err)
	assert.Equal(t, float64(1), v["a"])
}

func TestDecodeJSONEmbeddedObject(t *testing.T) {
	var v map[string]any
	err := decodeJSON("Here is the result:\n```json\n{\"title\": \"Cells\"}\n```\nHope that helps!", &v)
	require.NoError(t, err)
	assert.Equal(t, "Cells", v["title"])
}

func TestDecodeJSONGarbage(t *testing.T) {
	var v map[string]any
	err := decodeJSON("not json at all", &v)
	assert.Error(t, err)
}
