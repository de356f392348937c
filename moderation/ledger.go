package moderation

import "time"

// MessageHistorySize is the per-member spam buffer capacity.
const MessageHistorySize = 10

// MessageSnapshot is the part of a message kept for spam detection.
type MessageSnapshot struct {
	AuthorID  string
	ChannelID string
	Content   string
	Timestamp time.Time
}

// ViolationRecord is the automod violation counter for one member of one guild.
type ViolationRecord struct {
	GuildID         string
	UserID          string
	Count           int
	LastViolationAt time.Time
}

// messageRing is a fixed-capacity buffer that evicts the oldest snapshot.
type messageRing struct {
	buf   [MessageHistorySize]MessageSnapshot
	start int
	size  int
}

func (r *messageRing) push(s MessageSnapshot) {
	if r.size < len(r.buf) {
		r.buf[(r.start+r.size)%len(r.buf)] = s
		r.size++
		return
	}
	r.buf[r.start] = s
	r.start = (r.start + 1) % len(r.buf)
}

// snapshot returns the buffered messages oldest first.
func (r *messageRing) snapshot() []MessageSnapshot {
	out := make([]MessageSnapshot, r.size)
	for i := 0; i < r.size; i++ {
		out[i] = r.buf[(r.start+i)%len(r.buf)]
	}
	return out
}

// Ledger holds the violation counters and recent-message buffers of a single guild.
// It is not safe for concurrent use; the owning guild state serializes access.
type Ledger struct {
	guildID  string
	records  map[string]*ViolationRecord
	messages map[string]*messageRing
}

func NewLedger(guildID string) *Ledger {
	return &Ledger{
		guildID:  guildID,
		records:  make(map[string]*ViolationRecord),
		messages: make(map[string]*messageRing),
	}
}

// Record increments the member's counter and returns the new value.
func (l *Ledger) Record(userID string, now time.Time) int {
	rec, ok := l.records[userID]
	if !ok {
		rec = &ViolationRecord{GuildID: l.guildID, UserID: userID}
		l.records[userID] = rec
	}
	rec.Count++
	rec.LastViolationAt = now
	return rec.Count
}

// Clear resets the member's counter and returns the previous value.
func (l *Ledger) Clear(userID string) int {
	rec, ok := l.records[userID]
	if !ok {
		return 0
	}
	prev := rec.Count
	rec.Count = 0
	return prev
}

func (l *Ledger) Peek(userID string) int {
	if rec, ok := l.records[userID]; ok {
		return rec.Count
	}
	return 0
}

// Get returns a copy of the member's record.
func (l *Ledger) Get(userID string) (ViolationRecord, bool) {
	rec, ok := l.records[userID]
	if !ok {
		return ViolationRecord{}, false
	}
	return *rec, true
}

// Observe appends s to the member's message buffer and returns the buffer contents,
// oldest first, including s.
func (l *Ledger) Observe(userID string, s MessageSnapshot) []MessageSnapshot {
	ring, ok := l.messages[userID]
	if !ok {
		ring = &messageRing{}
		l.messages[userID] = ring
	}
	ring.push(s)
	return ring.snapshot()
}
