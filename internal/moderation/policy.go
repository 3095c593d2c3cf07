package moderation

// RejectionReason names why the policy rejected a comment
type RejectionReason string

const (
	ReasonToxic       RejectionReason = "toxic"
	ReasonTooNegative RejectionReason = "too_negative"
)

// Decision is the outcome of applying the moderation policy to one
// analysis result
type Decision struct {
	Accepted bool
	Reason   RejectionReason
}

// Decide applies the moderation policy to an analysis result. Toxicity is
// checked before sentiment, so a comment that is both toxic and very
// negative is reported as toxic.
func Decide(sentiment int, toxicityScore float64) Decision {
	if IsToxic(toxicityScore) {
		return Decision{Accepted: false, Reason: ReasonToxic}
	}
	if sentiment <= 1 {
		return Decision{Accepted: false, Reason: ReasonTooNegative}
	}
	return Decision{Accepted: true}
}
