package domain

import "time"

// ============================================================
// Messages: vendor/customer chat
// ============================================================

// Message is one chat message between two users. A conversation is the
// set of messages whose {from,to} equals an unordered pair of user ids,
// ordered by timestamp ascending.
type Message struct {
	ID         string    `json:"id"`
	FromUserID string    `json:"fromUserId"`
	ToUserID   string    `json:"toUserId"`
	Text       string    `json:"text"`
	Timestamp  time.Time `json:"timestamp"`
	Read       bool      `json:"read"`
}
