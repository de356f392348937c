package moderation

import (
	"fmt"
	"sync"
	"time"

	"discord-modbot/model"
)

type fakePlatform struct {
	mu sync.Mutex

	roles    map[string][]Role
	channels map[string][]Channel
	invites  map[string]string
	nextRole int

	deleted    []string
	dms        []WarningNotice
	timeouts   []string
	added      []string
	removed    []string
	bans       []string
	unbans     []string
	kicks      []string
	nicknames  map[string]string
	overwrites []string
	roleEdits  []int64
	logs       []LogEntry
	alerts     []SecurityAlert
	actions    []ActionLog
	resolves   int

	timeoutErr    error
	addRoleErr    error
	removeRoleErr error
	editRoleErr   error
	unbanErr      error
	deleteErr     error
	kickErr       error
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		roles:     make(map[string][]Role),
		channels:  make(map[string][]Channel),
		invites:   make(map[string]string),
		nicknames: make(map[string]string),
	}
}

func (f *fakePlatform) DeleteMessage(channelID, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakePlatform) SendDirectMessage(userID string, notice WarningNotice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dms = append(f.dms, notice)
	return nil
}

func (f *fakePlatform) Timeout(guildID, userID string, until time.Time, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.timeoutErr != nil {
		return f.timeoutErr
	}
	f.timeouts = append(f.timeouts, userID)
	return nil
}

func (f *fakePlatform) AddRole(guildID, userID, roleID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addRoleErr != nil {
		return f.addRoleErr
	}
	f.added = append(f.added, userID+":"+roleID)
	return nil
}

func (f *fakePlatform) RemoveRole(guildID, userID, roleID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.removeRoleErr != nil {
		return f.removeRoleErr
	}
	f.removed = append(f.removed, userID+":"+roleID)
	return nil
}

func (f *fakePlatform) CreateRole(guildID, name string, color int, permissions int64, reason string) (Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextRole++
	r := Role{ID: fmt.Sprintf("role-%d", f.nextRole), Name: name, Permissions: permissions}
	f.roles[guildID] = append(f.roles[guildID], r)
	return r, nil
}

func (f *fakePlatform) GuildRoles(guildID string) ([]Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Role(nil), f.roles[guildID]...), nil
}

func (f *fakePlatform) GuildChannels(guildID string) ([]Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Channel(nil), f.channels[guildID]...), nil
}

func (f *fakePlatform) DenyChannelPermissions(channelID, roleID string, deny int64, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.overwrites = append(f.overwrites, channelID+":"+roleID)
	return nil
}

func (f *fakePlatform) EditRolePermissions(guildID, roleID string, permissions int64, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.editRoleErr != nil {
		return f.editRoleErr
	}
	f.roleEdits = append(f.roleEdits, permissions)
	for i, r := range f.roles[guildID] {
		if r.ID == roleID {
			f.roles[guildID][i].Permissions = permissions
		}
	}
	return nil
}

func (f *fakePlatform) Ban(guildID, userID, reason string, deleteDays int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bans = append(f.bans, userID)
	return nil
}

func (f *fakePlatform) Unban(guildID, userID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unbanErr != nil {
		return f.unbanErr
	}
	f.unbans = append(f.unbans, userID)
	return nil
}

func (f *fakePlatform) Kick(guildID, userID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.kickErr != nil {
		return f.kickErr
	}
	f.kicks = append(f.kicks, userID)
	return nil
}

func (f *fakePlatform) ResolveInvite(code string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resolves++
	g, ok := f.invites[code]
	if !ok {
		return "", ErrNotFound
	}
	return g, nil
}

func (f *fakePlatform) SetNickname(guildID, userID, nickname, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nicknames[userID] = nickname
	return nil
}

func (f *fakePlatform) SendLogEntry(channelID string, entry LogEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs = append(f.logs, entry)
	return nil
}

func (f *fakePlatform) SendSecurityAlert(channelID string, alert SecurityAlert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts = append(f.alerts, alert)
	return nil
}

func (f *fakePlatform) SendActionLog(channelID string, entry ActionLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, entry)
	return nil
}

type fakeSettings struct {
	mu      sync.Mutex
	configs map[string]model.ModerationConfig
	routing map[string]model.GuildRouting
	blocked map[string][]string
}

func newFakeSettings() *fakeSettings {
	return &fakeSettings{
		configs: make(map[string]model.ModerationConfig),
		routing: make(map[string]model.GuildRouting),
		blocked: make(map[string][]string),
	}
}

func (f *fakeSettings) BlockedDomains(guildID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.blocked[guildID], nil
}

func (f *fakeSettings) ModerationConfig(guildID string) (model.ModerationConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.configs[guildID]; ok {
		return c, nil
	}
	return model.DefaultModerationConfig(), nil
}

func (f *fakeSettings) GuildRouting(guildID string) (model.GuildRouting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.routing[guildID], nil
}

func (f *fakeSettings) SetMuteRole(guildID, roleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := f.routing[guildID]
	r.MuteRoleID = roleID
	f.routing[guildID] = r
	return nil
}

type fakeAudit struct {
	mu       sync.Mutex
	warnings []model.WarningRecord
	actions  []model.ModActionRecord
}

func (f *fakeAudit) RecordWarning(rec model.WarningRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.warnings = append(f.warnings, rec)
	return nil
}

func (f *fakeAudit) RecordAction(rec model.ModActionRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, rec)
	return nil
}

func (f *fakeAudit) Warnings(guildID, userID string) ([]model.WarningRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.WarningRecord
	for _, w := range f.warnings {
		if w.GuildID == guildID && w.UserID == userID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeAudit) actionKinds() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, a := range f.actions {
		out = append(out, a.Action)
	}
	return out
}

// testClock is a settable time source.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type harness struct {
	svc      *Service
	platform *fakePlatform
	settings *fakeSettings
	audit    *fakeAudit
	clock    *testClock
}

const (
	testGuild   = "100"
	testBot     = "999"
	testLogChan = "log-1"
)

func newHarness() *harness {
	p := newFakePlatform()
	p.roles[testGuild] = []Role{{ID: testGuild, Name: "@everyone", Permissions: 0x800 | 0x400}}
	p.channels[testGuild] = []Channel{
		{ID: "c-text", Kind: ChannelText},
		{ID: "c-voice", Kind: ChannelVoice},
		{ID: "c-stage", Kind: ChannelStage},
		{ID: "c-cat", Kind: ChannelOther},
	}
	st := newFakeSettings()
	st.routing[testGuild] = model.GuildRouting{ModLogChannelID: testLogChan}
	a := &fakeAudit{}
	clock := &testClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}

	svc := NewService(p, st, a, Options{BotUserID: testBot, AlertsPerMinute: 1000, Now: clock.Now})
	return &harness{svc: svc, platform: p, settings: st, audit: a, clock: clock}
}

func (h *harness) config(mut func(*model.ModerationConfig)) {
	c := model.DefaultModerationConfig()
	mut(&c)
	h.settings.mu.Lock()
	h.settings.configs[testGuild] = c
	h.settings.mu.Unlock()
}

var msgSeq int

func (h *harness) message(author, content string) *Message {
	msgSeq++
	return &Message{
		ID:          fmt.Sprintf("m%d", msgSeq),
		GuildID:     testGuild,
		GuildName:   "Test Guild",
		ChannelID:   "c-text",
		ChannelName: "general",
		AuthorID:    author,
		AuthorName:  "user-" + author,
		Content:     content,
		Timestamp:   h.clock.Now(),
	}
}
