package repository

import (
	"sort"
	"time"

	"github.com/Omjadhav321/bhaskar-solar-platform/internal/domain"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/infra/observability"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/store"
)

// MessageRepo owns the messages collection.
type MessageRepo struct {
	col     *store.Collection[domain.Message]
	now     func() time.Time
	metrics *observability.Metrics
}

// GetAll returns every message.
func (r *MessageRepo) GetAll() []domain.Message {
	return r.col.All()
}

// Send appends a new unread message stamped with the current time.
func (r *MessageRepo) Send(fromUserID, toUserID, text string) (domain.Message, error) {
	defer observe(r.metrics, "messages.send", time.Now())
	if fromUserID == "" || toUserID == "" {
		return domain.Message{}, &domain.ErrValidation{Field: "userId", Message: "sender and recipient required"}
	}
	msg := domain.Message{
		ID:         NewID(),
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Text:       text,
		Timestamp:  r.now(),
		Read:       false,
	}
	r.col.Update(func(msgs []domain.Message) []domain.Message {
		return append(msgs, msg)
	})
	return msg, nil
}

// Conversation returns every message between the unordered pair
// {a, b}, sorted by timestamp ascending regardless of direction or
// send order.
func (r *MessageRepo) Conversation(a, b string) []domain.Message {
	var out []domain.Message
	for _, m := range r.col.All() {
		if (m.FromUserID == a && m.ToUserID == b) ||
			(m.FromUserID == b && m.ToUserID == a) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

// UserConversations returns the distinct partner ids the user has
// exchanged messages with, in first-contact order.
func (r *MessageRepo) UserConversations(userID string) []string {
	seen := make(map[string]bool)
	var partners []string
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			partners = append(partners, id)
		}
	}
	for _, m := range r.col.All() {
		if m.FromUserID == userID {
			add(m.ToUserID)
		}
		if m.ToUserID == userID {
			add(m.FromUserID)
		}
	}
	return partners
}

// MarkRead flags the given message ids as read.
func (r *MessageRepo) MarkRead(ids []string) {
	if len(ids) == 0 {
		return
	}
	defer observe(r.metrics, "messages.mark_read", time.Now())
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	r.col.Update(func(msgs []domain.Message) []domain.Message {
		for i := range msgs {
			if want[msgs[i].ID] {
				msgs[i].Read = true
			}
		}
		return msgs
	})
}

// UnreadCount returns how many unread messages address the user.
func (r *MessageRepo) UnreadCount(userID string) int {
	n := 0
	for _, m := range r.col.All() {
		if m.ToUserID == userID && !m.Read {
			n++
		}
	}
	return n
}
