package laxjson_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skosovsky/reactkit/laxjson"
)

func TestDecodeObject_Lenient(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want map[string]any
	}{
		{
			name: "strict json",
			in:   `{"expression": "2 + 3", "n": 4}`,
			want: map[string]any{"expression": "2 + 3", "n": 4.0},
		},
		{
			name: "single quotes",
			in:   `{'city': 'Paris'}`,
			want: map[string]any{"city": "Paris"},
		},
		{
			name: "unquoted keys and trailing comma",
			in:   `{city: "Paris", days: 3,}`,
			want: map[string]any{"city": "Paris", "days": 3.0},
		},
		{
			name: "python literals",
			in:   `{"a": True, "b": False, "c": None}`,
			want: map[string]any{"a": true, "b": false, "c": nil},
		},
		{
			name: "comments",
			in:   "{\n  \"a\": 1, // first\n  /* second */ \"b\": [1, 2,],\n}",
			want: map[string]any{"a": 1.0, "b": []any{1.0, 2.0}},
		},
		{
			name: "raw newline in string",
			in:   "{\"text\": \"line one\nline two\"}",
			want: map[string]any{"text": "line one\nline two"},
		},
		{
			name: "escapes",
			in:   `{"s": "a\"b\\cé\n"}`,
			want: map[string]any{"s": "a\"b\\cé\n"},
		},
		{
			name: "nested",
			in:   `{"o": {"k": [{"x": -1.5e2}]}}`,
			want: map[string]any{"o": map[string]any{"k": []any{map[string]any{"x": -150.0}}}},
		},
		{
			name: "missing comma",
			in:   `{"a": 1 "b": 2}`,
			want: map[string]any{"a": 1.0, "b": 2.0},
		},
		{
			name: "empty",
			in:   `{}`,
			want: map[string]any{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := laxjson.DecodeObject(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeObject_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"missing key", `{: 1}`},
		{"not an object", `[1, 2]`},
		{"empty input", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := laxjson.DecodeObject(tt.in)
			require.Error(t, err)
			var se *laxjson.SyntaxError
			assert.True(t, errors.As(err, &se))
		})
	}
}

func TestDecode_Scalars(t *testing.T) {
	v, err := laxjson.Decode(" 42 ")
	require.NoError(t, err)
	assert.Equal(t, 42.0, v)

	v, err = laxjson.Decode(`'hi'`)
	require.NoError(t, err)
	assert.Equal(t, "hi", v)

	v, err = laxjson.Decode(`null`)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestExtractObject(t *testing.T) {
	got, ok := laxjson.ExtractObject("Tool Input: {\"a\": 1} thanks")
	require.True(t, ok)
	assert.Equal(t, `{"a": 1}`, got)

	// Greedy: spans from the first '{' to the last '}'.
	got, ok = laxjson.ExtractObject(`{"a": 1} and {"b": 2}`)
	require.True(t, ok)
	assert.Equal(t, `{"a": 1} and {"b": 2}`, got)

	_, ok = laxjson.ExtractObject("no braces here")
	assert.False(t, ok)
}

func TestPairs(t *testing.T) {
	got := laxjson.Pairs(`{'name': 'O'Brien', "city": "Paris" oops}`)
	assert.Equal(t, map[string]any{"name": "O'Brien", "city": "Paris"}, got)

	assert.Empty(t, laxjson.Pairs("nothing"))
}

func TestDecodeToolInput(t *testing.T) {
	got, err := laxjson.DecodeToolInput(`{"expression": "2 + 3"}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"expression": "2 + 3"}, got)

	// Broken object: falls back to string pairs.
	got, err = laxjson.DecodeToolInput(`{"city": "Paris" "country": "France"}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"city": "Paris", "country": "France"}, got)

	_, err = laxjson.DecodeToolInput(`{not json at all`)
	require.Error(t, err)

	_, err = laxjson.DecodeToolInput(`{: 1}`)
	require.Error(t, err)
}

func ExampleDecodeObject() {
	obj, err := laxjson.DecodeObject(`{city: 'Paris', days: 3,}`)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(obj["city"], obj["days"])
	// Output: Paris 3
}
