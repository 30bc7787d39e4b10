package payload

import (
	"github.com/strategyloom/strategy-services-backend/internal/models"
)

// classifierRules maps distinguishing keys to component names. Rules are
// checked in order and the first match wins. Key sniffing is inherently
// ambiguous; the result is only ever used for additive writes, and payloads
// that match nothing stay unassigned for an operator to classify by hand.
var classifierRules = []struct {
	keys      []string
	component string
}{
	{[]string{"funnel", "stages", "touchpoints"}, models.ComponentEventFunnel},
	{[]string{"sections", "hero", "cta"}, models.ComponentLandingPage},
	{[]string{"milestones", "sub_topics"}, models.ComponentMessageMultiplier},
	{[]string{"topics", "channels"}, models.ComponentContentCompass},
	{[]string{"icp", "segments", "demographics"}, models.ComponentAudienceArchitect},
}

// Classify guesses which component a normalized payload belongs to when the
// webhook response carries no explicit component key (the legacy output
// case). The second return is false when no rule matches.
func Classify(value interface{}) (string, bool) {
	m, ok := value.(map[string]interface{})
	if !ok {
		return "", false
	}

	for _, rule := range classifierRules {
		for _, key := range rule.keys {
			if _, present := m[key]; present {
				return rule.component, true
			}
		}
	}
	return "", false
}
