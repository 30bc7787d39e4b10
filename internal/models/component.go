package models

// Component keys as stored in the submission components map
const (
	ComponentAudienceArchitect = "audienceArchitect"
	ComponentContentCompass    = "contentCompass"
	ComponentMessageMultiplier = "messageMultiplier"
	ComponentEventFunnel       = "eventFunnel"
	ComponentLandingPage       = "landingPage"
	ComponentOfferPrompt       = "offerPrompt"
)

// ComponentStatusKey is the reserved key inside the components map that holds
// the per-component status sub-map instead of a payload.
const ComponentStatusKey = "componentStatus"

// ComponentKeys lists every known component key in a stable order
var ComponentKeys = []string{
	ComponentAudienceArchitect,
	ComponentContentCompass,
	ComponentMessageMultiplier,
	ComponentEventFunnel,
	ComponentLandingPage,
	ComponentOfferPrompt,
}

// Per-component statuses
const (
	ComponentStatusPending      = "pending"
	ComponentStatusCompleted    = "completed"
	ComponentStatusFailed       = "failed"
	ComponentStatusNotRequested = "not_requested"
)

// Overall submission statuses
const (
	SubmissionStatusPending   = "pending"
	SubmissionStatusCompleted = "completed"
	SubmissionStatusFailed    = "failed"
)

// Submission kinds (one per strategy form)
const (
	KindAudienceArchitect = "audience_architect"
	KindContentCompass    = "content_compass"
	KindMessageMultiplier = "message_multiplier"
	KindEventFunnel       = "event_funnel"
	KindLandingPage       = "landing_page"
	KindOfferPrompt       = "offer_prompt"
	KindFullStrategy      = "full_strategy"
)

// SubmissionKinds lists every accepted kind value
var SubmissionKinds = []string{
	KindAudienceArchitect,
	KindContentCompass,
	KindMessageMultiplier,
	KindEventFunnel,
	KindLandingPage,
	KindOfferPrompt,
	KindFullStrategy,
}

// IsValidKind reports whether kind is one of the accepted submission kinds
func IsValidKind(kind string) bool {
	for _, k := range SubmissionKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// IsComponentKey reports whether key names a known component
func IsComponentKey(key string) bool {
	for _, k := range ComponentKeys {
		if k == key {
			return true
		}
	}
	return false
}

// ComponentsForKind returns the component keys a submission kind requests.
// A full strategy run requests every component except the offer prompt,
// which is only generated on demand.
func ComponentsForKind(kind string) []string {
	switch kind {
	case KindAudienceArchitect:
		return []string{ComponentAudienceArchitect}
	case KindContentCompass:
		return []string{ComponentContentCompass}
	case KindMessageMultiplier:
		return []string{ComponentMessageMultiplier}
	case KindEventFunnel:
		return []string{ComponentEventFunnel}
	case KindLandingPage:
		return []string{ComponentLandingPage}
	case KindOfferPrompt:
		return []string{ComponentOfferPrompt}
	case KindFullStrategy:
		return []string{
			ComponentAudienceArchitect,
			ComponentContentCompass,
			ComponentMessageMultiplier,
			ComponentEventFunnel,
			ComponentLandingPage,
		}
	default:
		return nil
	}
}
