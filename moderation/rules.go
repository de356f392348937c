package moderation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"discord-modbot/model"

	"github.com/PuerkitoBio/purell"
	"golang.org/x/text/cases"
)

const (
	identicalSpamCount = 3
	rapidSpamCount     = 5
	rapidSpamWindow    = 5 * time.Second

	capsMinLength = 10
	capsRatio     = 0.7

	repeatedCharRun = 6
	repeatedWordRun = 3
)

var (
	inviteRegex = regexp.MustCompile(`(?i)(?:discord\.gg|discord(?:app)?\.com/invite)/([a-zA-Z0-9-]+)`)
	urlRegex    = regexp.MustCompile(`(?i)https?://[^\s<>"']+`)
	customEmoji = regexp.MustCompile(`<a?:[a-zA-Z0-9_]+:[0-9]+>`)
)

// DefaultAllowedDomains are link targets every guild may post.
var DefaultAllowedDomains = []string{
	"youtube.com", "youtu.be", "twitter.com", "github.com",
	"reddit.com", "stackoverflow.com", "discord.com",
}

type profanityTier struct {
	level Severity
	name  string
	words []string
}

// Checked in order; the first tier with a hit wins.
var profanityTiers = []profanityTier{
	{SeverityLow, "mild", []string{"damn", "hell", "crap"}},
	{SeverityMedium, "moderate", []string{"shit", "fuck", "bitch", "ass"}},
	{SeverityHigh, "severe", []string{"nigger", "faggot", "retard", "cunt"}},
}

var emojiRanges = []struct{ lo, hi rune }{
	{0x1F600, 0x1F64F},
	{0x1F300, 0x1F5FF},
	{0x1F680, 0x1F6FF},
	{0x1F1E0, 0x1F1FF},
}

// RuleSet is the ordered content-policy chain. It keeps no per-member state: the spam
// check works on the history slice the caller pulled out of the ledger.
type RuleSet struct {
	allowedDomains map[string]struct{}
	invites        *InviteResolver
}

func NewRuleSet(extraDomains []string, invites *InviteResolver) *RuleSet {
	allowed := make(map[string]struct{}, len(DefaultAllowedDomains)+len(extraDomains))
	for _, d := range DefaultAllowedDomains {
		allowed[d] = struct{}{}
	}
	for _, d := range extraDomains {
		d = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(d)), "www.")
		if d != "" {
			allowed[d] = struct{}{}
		}
	}
	return &RuleSet{allowedDomains: allowed, invites: invites}
}

// Evaluate runs the chain against msg. At most one of the short-circuiting checks
// (spam, invite, profanity, link, caps, repeated text) matches, and it is always first in
// the result. The mention and emoji flood checks are evaluated regardless and append
// their own violations.
//
// history is the sender's buffer including msg; a nil history skips the spam check.
func (r *RuleSet) Evaluate(msg *Message, cfg model.ModerationConfig, history []MessageSnapshot) []Violation {
	var out []Violation
	if v, ok := r.evaluateChain(msg, cfg, history); ok {
		out = append(out, v)
	}
	if v, ok := checkMentions(msg, cfg.MaxMentions); ok {
		out = append(out, v)
	}
	if v, ok := checkEmoji(msg.Content, cfg.MaxEmoji); ok {
		out = append(out, v)
	}
	return out
}

func (r *RuleSet) evaluateChain(msg *Message, cfg model.ModerationConfig, history []MessageSnapshot) (Violation, bool) {
	if cfg.SpamDetection && history != nil {
		if v, ok := checkSpam(msg, history); ok {
			return v, true
		}
	}
	if cfg.AutoDeleteInvites {
		if v, ok := r.checkInvites(msg); ok {
			return v, true
		}
	}
	if cfg.ProfanityFilter {
		if v, ok := checkProfanity(msg.Content); ok {
			return v, true
		}
	}
	if cfg.LinkFilter {
		if v, ok := r.checkLinks(msg.Content); ok {
			return v, true
		}
	}
	if cfg.CapsFilter {
		if v, ok := checkCaps(msg.Content); ok {
			return v, true
		}
	}
	if cfg.RepeatedTextFilter {
		if v, ok := checkRepeated(msg.Content); ok {
			return v, true
		}
	}
	return Violation{}, false
}

func checkSpam(msg *Message, history []MessageSnapshot) (Violation, bool) {
	identical := 0
	for _, s := range history {
		if s.Content == msg.Content {
			identical++
		}
	}
	if identical >= identicalSpamCount {
		return Violation{Category: CategorySpam, Reason: "Spam: Identical messages"}, true
	}

	rapid := 0
	for _, s := range history {
		if s.ChannelID != msg.ChannelID {
			continue
		}
		if d := msg.Timestamp.Sub(s.Timestamp); d >= 0 && d < rapidSpamWindow {
			rapid++
		}
	}
	if rapid >= rapidSpamCount {
		return Violation{Category: CategorySpam, Reason: "Spam: Rapid messaging"}, true
	}
	return Violation{}, false
}

func (r *RuleSet) checkInvites(msg *Message) (Violation, bool) {
	matches := inviteRegex.FindAllStringSubmatch(msg.Content, -1)
	if len(matches) == 0 {
		return Violation{}, false
	}

	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		code := m[1]
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}

		if r.invites == nil {
			return Violation{Category: CategoryInvite, Reason: "Unresolvable Discord invite"}, true
		}
		guildID, err := r.invites.Resolve(code)
		if err != nil {
			logger.WithError(err).WithField("guild", msg.GuildID).Debug("invite resolution failed")
			return Violation{Category: CategoryInvite, Reason: "Unresolvable Discord invite"}, true
		}
		if guildID != msg.GuildID {
			return Violation{Category: CategoryInvite, Reason: "Unauthorized Discord invite"}, true
		}
	}
	return Violation{}, false
}

func checkProfanity(content string) (Violation, bool) {
	lower := strings.ToLower(content)
	for _, tier := range profanityTiers {
		for _, w := range tier.words {
			if strings.Contains(lower, w) {
				return Violation{
					Category: CategoryProfanity,
					Reason:   fmt.Sprintf("Profanity detected: %s level", tier.name),
					Severity: tier.level,
				}, true
			}
		}
	}
	return Violation{}, false
}

func (r *RuleSet) checkLinks(content string) (Violation, bool) {
	for _, raw := range urlRegex.FindAllString(content, -1) {
		domain, ok := linkDomain(raw)
		if !ok {
			continue
		}
		if _, allowed := r.allowedDomains[domain]; !allowed {
			return Violation{Category: CategoryLink, Reason: "Unauthorized link: " + domain}, true
		}
	}
	return Violation{}, false
}

// linkDomain returns the lower-cased host of raw without a leading "www.".
func linkDomain(raw string) (string, bool) {
	clean, err := purell.NormalizeURLString(raw, purell.FlagLowercaseScheme|purell.FlagLowercaseHost|purell.FlagRemoveWWW)
	if err != nil {
		return "", false
	}
	u, err := url.Parse(clean)
	if err != nil || u.Hostname() == "" {
		return "", false
	}
	return strings.TrimPrefix(u.Hostname(), "www."), true
}

func checkCaps(content string) (Violation, bool) {
	total := utf8.RuneCountInString(content)
	if total < capsMinLength {
		return Violation{}, false
	}
	upper := 0
	for _, c := range content {
		if unicode.IsUpper(c) {
			upper++
		}
	}
	if float64(upper)/float64(total) > capsRatio {
		return Violation{Category: CategoryCaps, Reason: "Excessive caps usage"}, true
	}
	return Violation{}, false
}

func checkRepeated(content string) (Violation, bool) {
	var prev rune
	run := 0
	for i, c := range strings.ToLower(content) {
		if i > 0 && c == prev {
			run++
		} else {
			run = 1
		}
		prev = c
		if run >= repeatedCharRun {
			return Violation{Category: CategoryRepeated, Reason: "Repeated characters"}, true
		}
	}

	words := strings.Fields(cases.Fold().String(content))
	for i := 0; i+repeatedWordRun <= len(words); i++ {
		if words[i] == words[i+1] && words[i+1] == words[i+2] {
			return Violation{Category: CategoryRepeated, Reason: "Repeated words"}, true
		}
	}
	return Violation{}, false
}

func checkMentions(msg *Message, max int) (Violation, bool) {
	n := msg.UserMentions + msg.RoleMentions
	if n > max {
		return Violation{Category: CategoryMentions, Reason: fmt.Sprintf("Excessive mentions: %d/%d", n, max)}, true
	}
	return Violation{}, false
}

func countEmoji(content string) int {
	n := len(customEmoji.FindAllStringIndex(content, -1))
	for _, c := range content {
		for _, r := range emojiRanges {
			if c >= r.lo && c <= r.hi {
				n++
				break
			}
		}
	}
	return n
}

func checkEmoji(content string, max int) (Violation, bool) {
	n := countEmoji(content)
	if n > max {
		return Violation{Category: CategoryEmoji, Reason: fmt.Sprintf("Emoji spam: %d/%d", n, max)}, true
	}
	return Violation{}, false
}
