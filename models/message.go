package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message is a single immutable content unit inside a conversation. IsRead
// is the only mutable field and only ever flips false to true.
type Message struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ConversationID string    `gorm:"index;not null" json:"conversation_id"`
	SenderID       string    `gorm:"not null" json:"sender_id"`
	Content        string    `json:"content"`
	MediaURL       string    `json:"media_url,omitempty"`
	IsRead         bool      `gorm:"default:false" json:"is_read"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
}

// Before is the feed ordering key: created_at ascending, message id as
// tiebreaker.
func (m *Message) Before(other *Message) bool {
	if !m.CreatedAt.Equal(other.CreatedAt) {
		return m.CreatedAt.Before(other.CreatedAt)
	}
	return strings.Compare(m.ID.String(), other.ID.String()) < 0
}

// AddressedTo reports whether the message counts toward viewerID's unread
// total: sent by someone else and not yet read.
func (m *Message) AddressedTo(viewerID string) bool {
	return m.SenderID != viewerID && !m.IsRead
}

// SendMessageRequest is the send payload. Content is trimmed before the
// emptiness check; a message may be empty only if it carries a media url.
type SendMessageRequest struct {
	Content  string `json:"content" conform:"trim"`
	MediaURL string `json:"media_url" conform:"trim"`
}

func (r *SendMessageRequest) Empty() bool {
	return strings.TrimSpace(r.Content) == "" && strings.TrimSpace(r.MediaURL) == ""
}
