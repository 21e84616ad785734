package mind

// responseStyle — stylistic hints handed to the generator per response
// type. The persona's register, not the reply text.
type responseStyle struct {
	Style    string
	Tone     string
	Approach string
}

var styleByType = map[ResponseType]responseStyle{
	ResponseEmotionalSupport:     {Style: "gentle", Tone: "warm", Approach: "validate-then-steady"},
	ResponseActiveDialogue:       {Style: "engaged", Tone: "attentive", Approach: "respond-directly"},
	ResponseTechnicalExplanation: {Style: "precise", Tone: "confident", Approach: "explain-with-authority"},
	ResponseGroupAcknowledgment:  {Style: "light", Tone: "friendly", Approach: "brief-acknowledgment"},
	ResponseSubtleService:        {Style: "unobtrusive", Tone: "quiet", Approach: "act-without-words"},
	ResponseImplicitFollowUp:     {Style: "familiar", Tone: "easy", Approach: "continue-thread"},
}

// StyleFor returns the stylistic hints for a response type. Non-response
// kinds come back empty.
func StyleFor(t ResponseType) (style, tone, approach string) {
	s, ok := styleByType[t]
	if !ok {
		return "", "", ""
	}
	return s.Style, s.Tone, s.Approach
}
