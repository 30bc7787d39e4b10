package payload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/strategyloom/strategy-services-backend/internal/models"
)

func TestHasContent_MessageMultiplier(t *testing.T) {
	t.Run("milestone counts as content", func(t *testing.T) {
		value := map[string]interface{}{"milestone": "Launch week"}
		assert.True(t, HasContent(models.ComponentMessageMultiplier, value))
	})

	t.Run("milestones array counts as content", func(t *testing.T) {
		value := map[string]interface{}{"milestones": []interface{}{"w1", "w2"}}
		assert.True(t, HasContent(models.ComponentMessageMultiplier, value))
	})

	t.Run("persona counts as content", func(t *testing.T) {
		value := map[string]interface{}{"persona": "The overworked founder"}
		assert.True(t, HasContent(models.ComponentMessageMultiplier, value))
	})

	t.Run("version marker counts as content", func(t *testing.T) {
		value := map[string]interface{}{"version": float64(2)}
		assert.True(t, HasContent(models.ComponentMessageMultiplier, value))
	})

	t.Run("empty sub_topics alone is not content", func(t *testing.T) {
		value := map[string]interface{}{"sub_topics": []interface{}{}}
		assert.False(t, HasContent(models.ComponentMessageMultiplier, value))
	})

	t.Run("milestone with empty sub_topics is still content", func(t *testing.T) {
		value := map[string]interface{}{
			"milestone":  "Launch week",
			"sub_topics": []interface{}{},
		}
		assert.True(t, HasContent(models.ComponentMessageMultiplier, value))
	})

	t.Run("unrelated keys are not content", func(t *testing.T) {
		value := map[string]interface{}{"note": "nothing generated"}
		assert.False(t, HasContent(models.ComponentMessageMultiplier, value))
	})
}

func TestHasContent_OtherComponents(t *testing.T) {
	t.Run("any non empty payload counts", func(t *testing.T) {
		value := map[string]interface{}{"funnel": "webinar"}
		assert.True(t, HasContent(models.ComponentEventFunnel, value))
	})

	t.Run("empty map does not count", func(t *testing.T) {
		assert.False(t, HasContent(models.ComponentLandingPage, map[string]interface{}{}))
	})

	t.Run("empty string does not count", func(t *testing.T) {
		assert.False(t, HasContent(models.ComponentContentCompass, ""))
	})

	t.Run("nil does not count", func(t *testing.T) {
		assert.False(t, HasContent(models.ComponentAudienceArchitect, nil))
	})

	t.Run("payload is normalized before the check", func(t *testing.T) {
		value := map[string]interface{}{
			"role":    "assistant",
			"content": map[string]interface{}{"hero": "headline"},
		}
		assert.True(t, HasContent(models.ComponentLandingPage, value))
	})
}

func TestRender(t *testing.T) {
	t.Run("sections come back in display order", func(t *testing.T) {
		value := map[string]interface{}{
			"sub_topics": []interface{}{"a", "b"},
			"persona":    "founder",
			"milestone":  "Launch week",
		}

		sections, renderable, reason := Render(models.ComponentMessageMultiplier, value)

		require.True(t, renderable)
		assert.Empty(t, reason)
		require.Len(t, sections, 3)
		assert.Equal(t, SectionPersona, sections[0].Name)
		assert.Equal(t, SectionMilestone, sections[1].Name)
		assert.Equal(t, SectionSubTopics, sections[2].Name)
	})

	t.Run("empty sub_topics is skipped without failing the render", func(t *testing.T) {
		value := map[string]interface{}{
			"milestone":  "Launch week",
			"sub_topics": []interface{}{},
		}

		sections, renderable, reason := Render(models.ComponentMessageMultiplier, value)

		require.True(t, renderable)
		assert.Empty(t, reason)
		require.Len(t, sections, 1)
		assert.Equal(t, SectionMilestone, sections[0].Name)
	})

	t.Run("no data gives a reason not an error", func(t *testing.T) {
		sections, renderable, reason := Render(models.ComponentMessageMultiplier, nil)

		assert.False(t, renderable)
		assert.Nil(t, sections)
		assert.Equal(t, "no data extracted from webhook response", reason)
	})

	t.Run("map without markers gives a reason", func(t *testing.T) {
		value := map[string]interface{}{"greeting": "hi"}

		_, renderable, reason := Render(models.ComponentEventFunnel, value)

		assert.False(t, renderable)
		assert.Equal(t, "no recognized content markers", reason)
	})

	t.Run("plain text renders as a single content block", func(t *testing.T) {
		sections, renderable, _ := Render(models.ComponentOfferPrompt, "Buy now and save 20%")

		require.True(t, renderable)
		require.Len(t, sections, 1)
		assert.Equal(t, SectionContent, sections[0].Name)
		assert.Equal(t, "Buy now and save 20%", sections[0].Content)
	})

	t.Run("payload is normalized before rendering", func(t *testing.T) {
		value := []interface{}{
			map[string]interface{}{
				"output": map[string]interface{}{"funnel": "webinar series"},
			},
		}

		sections, renderable, _ := Render(models.ComponentEventFunnel, value)

		require.True(t, renderable)
		require.Len(t, sections, 1)
		assert.Equal(t, "funnel", sections[0].Name)
	})
}
