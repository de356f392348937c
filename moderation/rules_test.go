package moderation

import (
	"strings"
	"testing"
	"time"

	"discord-modbot/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpamIdenticalMessages(t *testing.T) {
	l := NewLedger("g")
	base := time.Now()

	var v Violation
	var ok bool
	for i := 0; i < 3; i++ {
		msg := &Message{AuthorID: "u", ChannelID: "c", Content: "buy now", Timestamp: base.Add(time.Duration(i) * 10 * time.Second)}
		hist := l.Observe("u", MessageSnapshot{AuthorID: "u", ChannelID: "c", Content: msg.Content, Timestamp: msg.Timestamp})
		v, ok = checkSpam(msg, hist)
		if i < 2 {
			assert.False(t, ok, "message %d", i+1)
		}
	}
	require.True(t, ok)
	assert.Equal(t, CategorySpam, v.Category)
	assert.Equal(t, "Spam: Identical messages", v.Reason)
}

func TestSpamRapidMessages(t *testing.T) {
	l := NewLedger("g")
	base := time.Now()

	var v Violation
	var ok bool
	for i := 0; i < 5; i++ {
		msg := &Message{AuthorID: "u", ChannelID: "c", Content: strings.Repeat("x", i+1), Timestamp: base.Add(time.Duration(i) * 500 * time.Millisecond)}
		hist := l.Observe("u", MessageSnapshot{AuthorID: "u", ChannelID: "c", Content: msg.Content, Timestamp: msg.Timestamp})
		v, ok = checkSpam(msg, hist)
		if i < 4 {
			assert.False(t, ok, "message %d", i+1)
		}
	}
	require.True(t, ok)
	assert.Equal(t, "Spam: Rapid messaging", v.Reason)
}

func TestSpamRapidIgnoresOtherChannels(t *testing.T) {
	l := NewLedger("g")
	base := time.Now()
	var hist []MessageSnapshot
	for i := 0; i < 5; i++ {
		ch := "c1"
		if i%2 == 0 {
			ch = "c2"
		}
		hist = l.Observe("u", MessageSnapshot{ChannelID: ch, Content: strings.Repeat("y", i+1), Timestamp: base})
	}
	_, ok := checkSpam(&Message{ChannelID: "c2", Content: "yyyyy", Timestamp: base}, hist)
	assert.False(t, ok)
}

func TestCheckCaps(t *testing.T) {
	_, ok := checkCaps(strings.Repeat("A", 71) + strings.Repeat("a", 29))
	assert.True(t, ok)

	_, ok = checkCaps(strings.Repeat("A", 70) + strings.Repeat("a", 30))
	assert.False(t, ok)

	_, ok = checkCaps("AAAAAAAbbb")
	assert.False(t, ok)

	v, ok := checkCaps("AAAAAAAAbb")
	assert.True(t, ok, "ten characters are already checked")
	assert.Equal(t, CategoryCaps, v.Category)

	_, ok = checkCaps("ABCDEFGHI")
	assert.False(t, ok, "short messages are exempt")
}

func TestCheckRepeated(t *testing.T) {
	v, ok := checkRepeated("FFFFFFFFFF")
	require.True(t, ok)
	assert.Equal(t, "Repeated characters", v.Reason)

	_, ok = checkRepeated("aaaaa")
	assert.False(t, ok)

	v, ok = checkRepeated("No no NO please")
	require.True(t, ok)
	assert.Equal(t, "Repeated words", v.Reason)

	_, ok = checkRepeated("no no yes no")
	assert.False(t, ok)
}

func TestCheckProfanityTiers(t *testing.T) {
	v, ok := checkProfanity("oh DAMN that is bad")
	require.True(t, ok)
	assert.Equal(t, "Profanity detected: mild level", v.Reason)
	assert.Equal(t, SeverityLow, v.Severity)

	v, ok = checkProfanity("what the fuck")
	require.True(t, ok)
	assert.Equal(t, "Profanity detected: moderate level", v.Reason)
	assert.Equal(t, SeverityMedium, v.Severity)

	_, ok = checkProfanity("lovely weather")
	assert.False(t, ok)
}

func TestCheckLinks(t *testing.T) {
	r := NewRuleSet([]string{"Example.org"}, nil)

	_, ok := r.checkLinks("watch https://www.YouTube.com/watch?v=1 and https://github.com/x")
	assert.False(t, ok)

	_, ok = r.checkLinks("docs at https://example.org/page")
	assert.False(t, ok)

	v, ok := r.checkLinks("see https://github.com/a then http://www.Evil.com/login")
	require.True(t, ok)
	assert.Equal(t, "Unauthorized link: evil.com", v.Reason)
}

func TestCheckInvites(t *testing.T) {
	p := newFakePlatform()
	p.invites["home"] = "g1"
	p.invites["other"] = "g2"
	r := NewRuleSet(nil, NewInviteResolver(p))

	_, ok := r.checkInvites(&Message{GuildID: "g1", Content: "join discord.gg/home"})
	assert.False(t, ok)

	v, ok := r.checkInvites(&Message{GuildID: "g1", Content: "join https://discord.com/invite/other"})
	require.True(t, ok)
	assert.Equal(t, "Unauthorized Discord invite", v.Reason)

	v, ok = r.checkInvites(&Message{GuildID: "g1", Content: "discordapp.com/invite/gone"})
	require.True(t, ok)
	assert.Equal(t, "Unresolvable Discord invite", v.Reason)
	assert.Equal(t, CategoryInvite, v.Category)

	before := p.resolves
	r.checkInvites(&Message{GuildID: "g1", Content: "discord.gg/home discord.gg/home"})
	assert.Equal(t, before, p.resolves, "resolutions are cached")
}

func TestFloodChecks(t *testing.T) {
	v, ok := checkMentions(&Message{UserMentions: 4, RoleMentions: 2}, 5)
	require.True(t, ok)
	assert.Equal(t, "Excessive mentions: 6/5", v.Reason)

	_, ok = checkMentions(&Message{UserMentions: 5}, 5)
	assert.False(t, ok)

	v, ok = checkEmoji(strings.Repeat("😀", 6)+strings.Repeat("<:pog:123>", 3)+"<a:spin:456>🚀", 10)
	require.True(t, ok)
	assert.Equal(t, "Emoji spam: 11/10", v.Reason)

	_, ok = checkEmoji(strings.Repeat("😀", 10), 10)
	assert.False(t, ok)
}

func TestEvaluateFloodRunsAfterChainMatch(t *testing.T) {
	r := NewRuleSet(nil, nil)
	cfg := model.DefaultModerationConfig()

	msg := &Message{Content: "THIS IS VERY LOUD TEXT", UserMentions: 6}
	got := r.Evaluate(msg, cfg, nil)
	require.Len(t, got, 2)
	assert.Equal(t, CategoryCaps, got[0].Category)
	assert.Equal(t, CategoryMentions, got[1].Category)
}

func TestEvaluateFirstMatchWins(t *testing.T) {
	r := NewRuleSet(nil, nil)
	cfg := model.DefaultModerationConfig()

	got := r.Evaluate(&Message{Content: "DAMN DAMN DAMN DAMN"}, cfg, nil)
	require.Len(t, got, 1)
	assert.Equal(t, CategoryProfanity, got[0].Category)

	cfg.ProfanityFilter = false
	got = r.Evaluate(&Message{Content: "DAMN DAMN DAMN DAMN"}, cfg, nil)
	require.Len(t, got, 1)
	assert.Equal(t, CategoryCaps, got[0].Category)
}
