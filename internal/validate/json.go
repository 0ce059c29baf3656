package validate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// MaxJSONDepth is the maximum nesting depth accepted for JSON payloads.
const MaxJSONDepth = 100

// JSONPayload checks a JSON document for size, parseability, and nesting
// depth. The depth walk short-circuits as soon as the limit is exceeded, so
// adversarial deeply-nested input costs at most MaxJSONDepth+1 tokens of
// descent per branch.
func JSONPayload(data []byte, maxSize int64) Result {
	if maxSize > 0 && int64(len(data)) > maxSize {
		return invalid(fmt.Sprintf("payload size %d exceeds maximum of %d bytes", len(data), maxSize))
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return invalid("payload is empty")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	depth := 0
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return invalid(fmt.Sprintf("payload is not valid JSON: %v", err))
		}
		if delim, isDelim := tok.(json.Delim); isDelim {
			switch delim {
			case '{', '[':
				depth++
				if depth > MaxJSONDepth {
					return invalid(fmt.Sprintf("payload nesting depth exceeds maximum of %d", MaxJSONDepth))
				}
			case '}', ']':
				depth--
			}
		}
	}

	return valid()
}
