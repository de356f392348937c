package moderation

import (
	"regexp"
	"strings"
)

// threatPattern is a content signature the security scanner looks for.
type threatPattern struct {
	name     string
	re       *regexp.Regexp
	critical bool
	// caseSensitive patterns are matched against the original content.
	caseSensitive bool
}

var threatPatterns = []threatPattern{
	{name: "discord_token", re: regexp.MustCompile(`[MN][A-Za-z\d]{23}\.[\w-]{6}\.[\w-]{27}`), critical: true, caseSensitive: true},
	{name: "webhook_url", re: regexp.MustCompile(`https://discord(?:app)?\.com/api/webhooks/\d+/[\w-]+`), critical: true},
	{name: "ip_address", re: regexp.MustCompile(`\b(?:[0-9]{1,3}\.){3}[0-9]{1,3}\b`)},
	{name: "suspicious_links", re: regexp.MustCompile(`(?:bit\.ly|tinyurl|t\.co|goo\.gl|ow\.ly)/\w+`)},
	{name: "crypto_scam", re: regexp.MustCompile(`(?:free|claim).*(?:bitcoin|eth|crypto|nft)`)},
	{name: "phishing", re: regexp.MustCompile(`(?:discord|nitro|steam).*(?:free|gift|giveaway)`)},
}

var suspiciousExtensions = []string{".exe", ".scr", ".bat", ".cmd", ".com", ".pif", ".vbs", ".js"}

const frequencyReason = "High suspicious activity frequency"

// ThreatReport is what the scanner found in one message.
type ThreatReport struct {
	Threats  []string
	Severity Severity
	// Files lists attachments with an executable-looking extension.
	Files []string
}

func (t ThreatReport) Critical() bool { return t.Severity == SeverityCritical }

// ScanThreats matches content and attachment names against the known threat signatures.
func ScanThreats(content string, attachments []string) ThreatReport {
	var rep ThreatReport
	lower := strings.ToLower(content)
	for _, p := range threatPatterns {
		target := lower
		if p.caseSensitive {
			target = content
		}
		if !p.re.MatchString(target) {
			continue
		}
		rep.Threats = append(rep.Threats, p.name)
		if p.critical {
			rep.Severity = SeverityCritical
		} else if rep.Severity == "" {
			rep.Severity = SeverityHigh
		}
	}

	for _, name := range attachments {
		lname := strings.ToLower(name)
		for _, ext := range suspiciousExtensions {
			if strings.HasSuffix(lname, ext) {
				rep.Files = append(rep.Files, name)
				break
			}
		}
	}
	return rep
}

var (
	usernamePatterns = []*regexp.Regexp{
		regexp.MustCompile(`[a-z]+\d{4,}$`),
		regexp.MustCompile(`^[a-z]{1,3}\d{10,}$`),
		regexp.MustCompile(`discord|admin|mod|owner`),
	}
)

func suspiciousUsername(name string) bool {
	lower := strings.ToLower(name)
	for _, re := range usernamePatterns {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}
