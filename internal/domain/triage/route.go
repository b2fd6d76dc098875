package triage

// Destination names the view the client navigates to after a verdict.
type Destination string

const (
	// DestEmergency is the emergency-guidance view. No further calls are
	// made before navigating.
	DestEmergency Destination = "emergency"
	// DestAdvice is the medical-advice view showing the recommended
	// departments.
	DestAdvice Destination = "advice"
	// DestQuestionnaire is the questionnaire-answering view. This is the
	// only destination reached after a second network round-trip: the AI
	// questionnaire generation call happens before navigation.
	DestQuestionnaire Destination = "questionnaire"
)

// RouteFor maps a verdict's urgency to its downstream view. The mapping is
// total: red goes to emergency, yellow and green to advice, white to the
// generated questionnaire.
func RouteFor(u Urgency) Destination {
	switch u {
	case Red:
		return DestEmergency
	case Yellow, Green:
		return DestAdvice
	default:
		return DestQuestionnaire
	}
}
