package moderation

// Category names the content rule that produced a violation.
type Category string

const (
	CategorySpam      Category = "spam"
	CategoryInvite    Category = "invite"
	CategoryProfanity Category = "profanity"
	CategoryLink      Category = "link"
	CategoryCaps      Category = "caps"
	CategoryRepeated  Category = "repeated"
	CategoryMentions  Category = "mentions"
	CategoryEmoji     Category = "emoji"
	CategoryThreat    Category = "threat"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

type TrustLevel string

const (
	TrustUnknown    TrustLevel = "unknown"
	TrustTrusted    TrustLevel = "trusted"
	TrustNeutral    TrustLevel = "neutral"
	TrustSuspicious TrustLevel = "suspicious"
	TrustHighRisk   TrustLevel = "high_risk"
)

// ParseTrustLevel accepts the levels a moderator may assign manually.
func ParseTrustLevel(s string) (TrustLevel, error) {
	switch l := TrustLevel(s); l {
	case TrustTrusted, TrustNeutral, TrustSuspicious, TrustHighRisk:
		return l, nil
	}
	return TrustUnknown, ErrInvalidTrustLevel
}

// Violation is a single rule hit on a message.
type Violation struct {
	Category Category
	Reason   string
	// Severity is only set by rules that grade their hits (profanity tiers).
	Severity Severity
	// Deleted reports whether the rule itself removed the message.
	Deleted bool
}
