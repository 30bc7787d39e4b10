package payload

import (
	"github.com/strategyloom/strategy-services-backend/internal/models"
)

// Section names emitted by the display adapter
const (
	SectionPersona    = "persona"
	SectionMilestone  = "milestone"
	SectionMilestones = "milestones"
	SectionSubTopics  = "sub_topics"
	SectionContent    = "content"
)

// sectionOrder lists the recognized structural markers per component, in
// render order. A payload is renderable when at least one marker holds data.
var sectionOrder = map[string][]string{
	models.ComponentMessageMultiplier: {SectionPersona, SectionMilestone, SectionMilestones, SectionSubTopics},
	models.ComponentEventFunnel:       {"funnel", "stages", "touchpoints"},
	models.ComponentLandingPage:       {"hero", "sections", "cta"},
	models.ComponentContentCompass:    {"topics", "channels"},
	models.ComponentAudienceArchitect: {SectionPersona, "icp", "segments", "demographics"},
	models.ComponentOfferPrompt:       {"offer", "prompt", SectionContent},
}

// HasContent reports whether a component payload demonstrates enough
// structure to count as generated content. For the message multiplier this
// means a milestone, a milestones array, a persona, or a version marker; an
// empty sub_topics array on its own proves nothing either way. Every other
// component only needs a non-empty payload.
func HasContent(component string, value interface{}) bool {
	value = Normalize(value)

	if component == models.ComponentMessageMultiplier {
		m, ok := value.(map[string]interface{})
		if !ok {
			return truthy(value)
		}
		if truthy(m["milestone"]) || truthy(m["milestones"]) || truthy(m["persona"]) {
			return true
		}
		if _, hasVersion := m["version"]; hasVersion {
			return true
		}
		return false
	}

	return truthy(value)
}

// Render decides whether a component payload can be shown to the end user,
// and if so returns its sections in display order. The returned reason is
// filled only when the payload is not renderable; it feeds the user-facing
// "could not generate this section" message, which is distinct from a server
// error.
func Render(component string, value interface{}) (sections []models.ViewSection, renderable bool, reason string) {
	value = Normalize(value)
	if !truthy(value) {
		return nil, false, "no data extracted from webhook response"
	}

	m, ok := value.(map[string]interface{})
	if !ok {
		// Legacy plain-text payloads render as a single content block
		return []models.ViewSection{{Name: SectionContent, Content: value}}, true, ""
	}

	markers := sectionOrder[component]
	for _, name := range markers {
		content, present := m[name]
		if !present {
			continue
		}
		if name == SectionSubTopics && !truthy(content) {
			// An empty sub_topics array must not hide the milestone or
			// persona that came with it, and is not content on its own.
			continue
		}
		if truthy(content) {
			sections = append(sections, models.ViewSection{Name: name, Content: content})
		}
	}

	if len(sections) == 0 {
		return nil, false, "no recognized content markers"
	}
	return sections, true, ""
}

// truthy reports whether a normalized value holds any usable data. Empty
// maps, arrays and strings are indistinguishable from a silent generation
// failure and count as empty.
func truthy(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case map[string]interface{}:
		return len(v) > 0
	case []interface{}:
		return len(v) > 0
	case bool:
		return v
	default:
		return true
	}
}
