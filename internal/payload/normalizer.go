// Package payload contains the shape normalization, component classification
// and display heuristics for webhook-generated strategy content. The upstream
// automation service does not commit to a stable response shape, so everything
// here is best effort: malformed input degrades to "no usable data" and is
// never treated as an error.
package payload

import (
	"encoding/json"
	"strings"
)

// maxUnwrapDepth bounds envelope peeling so hostile or cyclic-looking
// payloads cannot loop the normalizer.
const maxUnwrapDepth = 8

// Normalize peels known envelope shapes off a webhook payload until none
// match or the depth limit is reached:
//
//   - strings holding JSON are parsed (double-encoded responses)
//   - {role, content} chat envelopes are replaced by their content
//   - {payload: {...}} wrappers are replaced by their payload
//   - [{output: ...}] single-element arrays are unwrapped to the output field;
//     an output holding {type, content} segments is kept as a stringified
//     array because the display layer parses that structure itself
//
// Normalize never fails. Input that matches no known shape is returned as
// received, including plain text from legacy submissions.
func Normalize(value interface{}) interface{} {
	for depth := 0; depth < maxUnwrapDepth; depth++ {
		switch v := value.(type) {
		case string:
			parsed, ok := parseJSONString(v)
			if !ok {
				return value
			}
			value = parsed

		case map[string]interface{}:
			if content, ok := unwrapRoleContent(v); ok {
				value = content
				continue
			}
			if inner, ok := unwrapPayload(v); ok {
				value = inner
				continue
			}
			return value

		case []interface{}:
			output, ok := unwrapOutputArray(v)
			if !ok {
				return value
			}
			// A {type, content} segment array is kept as a string so it is
			// not re-parsed on the next pass.
			if segments, isArr := output.([]interface{}); isArr && isSegmentArray(segments) {
				encoded, err := json.Marshal(segments)
				if err != nil {
					return segments
				}
				return string(encoded)
			}
			value = output

		default:
			return value
		}
	}
	return value
}

// parseJSONString attempts to parse s as a JSON object or array. Anything
// else, including scalars and parse failures, is treated as a legacy
// plain-text payload and left alone.
func parseJSONString(s string) (interface{}, bool) {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return nil, false
	}
	var parsed interface{}
	if err := json.Unmarshal([]byte(trimmed), &parsed); err != nil {
		return nil, false
	}
	switch parsed.(type) {
	case map[string]interface{}, []interface{}:
		return parsed, true
	default:
		return nil, false
	}
}

// unwrapRoleContent peels the {role, content} chat envelope
func unwrapRoleContent(m map[string]interface{}) (interface{}, bool) {
	_, hasRole := m["role"]
	content, hasContent := m["content"]
	if hasRole && hasContent {
		return content, true
	}
	return nil, false
}

// unwrapPayload peels a {payload: {...}} wrapper. Only object payloads are
// unwrapped; a scalar "payload" key may be real component data.
func unwrapPayload(m map[string]interface{}) (interface{}, bool) {
	inner, ok := m["payload"]
	if !ok {
		return nil, false
	}
	if _, isMap := inner.(map[string]interface{}); !isMap {
		return nil, false
	}
	return inner, true
}

// unwrapOutputArray peels the [{output: ...}] single-element response shape
func unwrapOutputArray(arr []interface{}) (interface{}, bool) {
	if len(arr) != 1 {
		return nil, false
	}
	elem, ok := arr[0].(map[string]interface{})
	if !ok {
		return nil, false
	}
	output, ok := elem["output"]
	if !ok {
		return nil, false
	}
	return output, true
}

// isSegmentArray reports whether every element is a {type, content} segment
func isSegmentArray(arr []interface{}) bool {
	if len(arr) == 0 {
		return false
	}
	for _, elem := range arr {
		m, ok := elem.(map[string]interface{})
		if !ok {
			return false
		}
		if _, ok := m["type"]; !ok {
			return false
		}
		if _, ok := m["content"]; !ok {
			return false
		}
	}
	return true
}
