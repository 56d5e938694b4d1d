package models

import (
	"bytes"
	"encoding/json"
)

// ScalarString renders a raw JSON value the way the fleet API's own tooling
// prints annotation values: strings verbatim, booleans as True/False, null
// as None and numbers in their literal form. Composite values fall back to
// their compact JSON text.
func ScalarString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	case 't':
		if bytes.Equal(raw, []byte("true")) {
			return "True"
		}
	case 'f':
		if bytes.Equal(raw, []byte("false")) {
			return "False"
		}
	case 'n':
		if bytes.Equal(raw, []byte("null")) {
			return "None"
		}
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err == nil {
			return buf.String()
		}
	}
	return string(raw)
}

func cloneRaw(b []byte) json.RawMessage {
	if len(b) == 0 {
		return nil
	}
	out := make(json.RawMessage, len(b))
	copy(out, b)
	return out
}
