package moderation

import (
	"container/heap"
	"time"

	"discord-modbot/model"
)

type scheduleKey struct {
	guildID string
	userID  string
	kind    model.TempActionKind
}

func keyOf(a model.TempAction) scheduleKey {
	return scheduleKey{guildID: a.GuildID, userID: a.UserID, kind: a.Kind}
}

type scheduleItem struct {
	action model.TempAction
	index  int
}

type actionHeap []*scheduleItem

func (h actionHeap) Len() int { return len(h) }
func (h actionHeap) Less(i, j int) bool {
	return h[i].action.ExpiresAt.Before(h[j].action.ExpiresAt)
}
func (h actionHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *actionHeap) Push(x any) {
	item := x.(*scheduleItem)
	item.index = len(*h)
	*h = append(*h, item)
}
func (h *actionHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*h = old[:n-1]
	return item
}

// Schedule is a min-heap of pending temp actions ordered by expiry, holding at most one
// entry per (guild, user, kind). It does no locking of its own.
type Schedule struct {
	heap  actionHeap
	items map[scheduleKey]*scheduleItem
}

func NewSchedule() *Schedule {
	return &Schedule{items: make(map[scheduleKey]*scheduleItem)}
}

// Add schedules a, replacing any pending action with the same key.
func (s *Schedule) Add(a model.TempAction) {
	k := keyOf(a)
	if item, ok := s.items[k]; ok {
		item.action = a
		heap.Fix(&s.heap, item.index)
		return
	}
	item := &scheduleItem{action: a}
	heap.Push(&s.heap, item)
	s.items[k] = item
}

// Cancel removes the pending action for the key and reports whether one existed.
func (s *Schedule) Cancel(guildID, userID string, kind model.TempActionKind) bool {
	k := scheduleKey{guildID: guildID, userID: userID, kind: kind}
	item, ok := s.items[k]
	if !ok {
		return false
	}
	heap.Remove(&s.heap, item.index)
	delete(s.items, k)
	return true
}

func (s *Schedule) Get(guildID, userID string, kind model.TempActionKind) (model.TempAction, bool) {
	item, ok := s.items[scheduleKey{guildID: guildID, userID: userID, kind: kind}]
	if !ok {
		return model.TempAction{}, false
	}
	return item.action, true
}

// PopDue removes and returns every action expiring at or before now, earliest first.
func (s *Schedule) PopDue(now time.Time) []model.TempAction {
	var due []model.TempAction
	for len(s.heap) > 0 && !s.heap[0].action.ExpiresAt.After(now) {
		item := heap.Pop(&s.heap).(*scheduleItem)
		delete(s.items, keyOf(item.action))
		due = append(due, item.action)
	}
	return due
}

func (s *Schedule) Len() int { return len(s.heap) }

// Next returns the earliest pending action.
func (s *Schedule) Next() (model.TempAction, bool) {
	if len(s.heap) == 0 {
		return model.TempAction{}, false
	}
	return s.heap[0].action, true
}
