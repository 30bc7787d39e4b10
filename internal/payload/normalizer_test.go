package payload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_Envelopes(t *testing.T) {
	t.Run("role content envelope is peeled", func(t *testing.T) {
		input := map[string]interface{}{
			"role":    "assistant",
			"content": map[string]interface{}{"milestone": "Launch week"},
		}

		result := Normalize(input)

		m, ok := result.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "Launch week", m["milestone"])
	})

	t.Run("payload wrapper is peeled", func(t *testing.T) {
		input := map[string]interface{}{
			"payload": map[string]interface{}{"topics": []interface{}{"a", "b"}},
		}

		result := Normalize(input)

		m, ok := result.(map[string]interface{})
		require.True(t, ok)
		assert.Contains(t, m, "topics")
	})

	t.Run("scalar payload key is real data and stays wrapped", func(t *testing.T) {
		input := map[string]interface{}{"payload": "v2"}

		result := Normalize(input)

		assert.Equal(t, input, result)
	})

	t.Run("json in string is parsed", func(t *testing.T) {
		result := Normalize(`{"persona": "founder"}`)

		m, ok := result.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "founder", m["persona"])
	})

	t.Run("plain text is returned as received", func(t *testing.T) {
		result := Normalize("Here is your strategy: do great marketing")

		assert.Equal(t, "Here is your strategy: do great marketing", result)
	})

	t.Run("invalid json string is returned as received", func(t *testing.T) {
		result := Normalize(`{"persona": `)

		assert.Equal(t, `{"persona": `, result)
	})

	t.Run("nested envelopes unwrap to the innermost payload", func(t *testing.T) {
		input := map[string]interface{}{
			"role": "assistant",
			"content": map[string]interface{}{
				"payload": map[string]interface{}{"milestone": "Week 1"},
			},
		}

		result := Normalize(input)

		m, ok := result.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "Week 1", m["milestone"])
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, Normalize(nil))
	})
}

func TestNormalize_OutputArray(t *testing.T) {
	t.Run("single element output array is unwrapped", func(t *testing.T) {
		input := []interface{}{
			map[string]interface{}{
				"output": map[string]interface{}{"funnel": "webinar"},
			},
		}

		result := Normalize(input)

		m, ok := result.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "webinar", m["funnel"])
	})

	t.Run("double encoded output string is parsed", func(t *testing.T) {
		input := []interface{}{
			map[string]interface{}{"output": `{"milestones": ["a"]}`},
		}

		result := Normalize(input)

		m, ok := result.(map[string]interface{})
		require.True(t, ok)
		assert.Contains(t, m, "milestones")
	})

	t.Run("segment array output is kept as a string", func(t *testing.T) {
		input := []interface{}{
			map[string]interface{}{
				"output": []interface{}{
					map[string]interface{}{"type": "text", "content": "hello"},
					map[string]interface{}{"type": "text", "content": "world"},
				},
			},
		}

		result := Normalize(input)

		s, ok := result.(string)
		require.True(t, ok)
		assert.Contains(t, s, `"content":"hello"`)
	})

	t.Run("multi element array is returned as received", func(t *testing.T) {
		input := []interface{}{
			map[string]interface{}{"output": "a"},
			map[string]interface{}{"output": "b"},
		}

		result := Normalize(input)

		assert.Equal(t, input, result)
	})

	t.Run("array without output key is returned as received", func(t *testing.T) {
		input := []interface{}{map[string]interface{}{"milestone": "x"}}

		result := Normalize(input)

		assert.Equal(t, input, result)
	})
}

func TestNormalize_DepthLimit(t *testing.T) {
	// Build a payload wrapper deeper than the unwrap limit
	value := interface{}(map[string]interface{}{"milestone": "core"})
	for i := 0; i < 20; i++ {
		value = map[string]interface{}{"payload": value}
	}

	result := Normalize(value)

	// Still a map, still wrapped somewhere: the point is that it terminated
	_, ok := result.(map[string]interface{})
	assert.True(t, ok)
}
