package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// nested builds a JSON document of arrays nested to the given depth.
func nested(depth int) []byte {
	return []byte(strings.Repeat("[", depth) + strings.Repeat("]", depth))
}

func TestJSONPayload(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		maxSize int64
		valid   bool
	}{
		{"flat object", []byte(`{"a":1,"b":"two"}`), 0, true},
		{"flat array", []byte(`[1,2,3]`), 0, true},
		{"scalar", []byte(`42`), 0, true},
		{"string scalar", []byte(`"hello"`), 0, true},
		{"null", []byte(`null`), 0, true},
		{"empty", []byte(``), 0, false},
		{"whitespace only", []byte("  \n\t"), 0, false},
		{"truncated", []byte(`{"a":`), 0, false},
		{"trailing garbage", []byte(`{"a":1}garbage`), 0, false},
		{"within size cap", []byte(`{"a":1}`), 16, true},
		{"over size cap", []byte(`{"a":"aaaaaaaaaaaaaaaa"}`), 16, false},
		{"at depth limit", nested(MaxJSONDepth), 0, true},
		{"one past depth limit", nested(MaxJSONDepth + 1), 0, false},
		{"deep bomb", nested(150), 0, false},
		{"deep object bomb", []byte(strings.Repeat(`{"a":`, 150) + "1" + strings.Repeat("}", 150)), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := JSONPayload(tt.data, tt.maxSize)
			assert.Equal(t, tt.valid, result.Valid, "errors: %v", result.Errors)
		})
	}
}

func TestJSONPayload_DepthIndependentOfSize(t *testing.T) {
	// A tiny document that is too deep must still be rejected, and a large
	// but shallow document must still pass.
	deep := nested(150)
	assert.False(t, JSONPayload(deep, 0).Valid)

	shallow := []byte(`{"data":"` + strings.Repeat("x", 1<<16) + `"}`)
	assert.True(t, JSONPayload(shallow, 0).Valid)
}

func TestJSONPayload_MixedNesting(t *testing.T) {
	doc := []byte(`{"a":[{"b":[{"c":1}]}],"d":{"e":[1,[2,[3]]]}}`)
	assert.True(t, JSONPayload(doc, 0).Valid)
}
