package models

import (
	"errors"
	"strings"
	"time"
)

// conversationIDSeparator joins the two sorted participant ids into the
// canonical conversation id.
const conversationIDSeparator = "_"

var (
	ErrSelfConversation = errors.New("conversation requires two distinct participants")
	ErrEmptyParticipant = errors.New("participant id must not be empty")
)

// Conversation is the durable record of a chat relationship between exactly
// two identities. Participants are stored in the same sorted order used for
// id derivation, independent of who initiated the conversation.
type Conversation struct {
	ID                  string     `gorm:"primaryKey" json:"id"`
	ParticipantA        string     `gorm:"index;not null" json:"participant_a"`
	ParticipantB        string     `gorm:"index;not null" json:"participant_b"`
	CreatedAt           time.Time  `json:"created_at"`
	LastMessage         string     `json:"last_message"`
	LastMessageAt       *time.Time `json:"last_message_at"`
	LastMessageSenderID string     `json:"last_message_sender_id"`
}

// ConversationID derives the canonical conversation id for a participant
// pair. Symmetric: ConversationID(a, b) == ConversationID(b, a).
func ConversationID(a, b string) (string, error) {
	if a == "" || b == "" {
		return "", ErrEmptyParticipant
	}
	if a == b {
		return "", ErrSelfConversation
	}
	first, second := SortParticipants(a, b)
	return first + conversationIDSeparator + second, nil
}

// SortParticipants returns the pair in the fixed order used for id
// derivation and storage.
func SortParticipants(a, b string) (string, string) {
	if strings.Compare(a, b) > 0 {
		return b, a
	}
	return a, b
}

// NewConversation builds the record created lazily on first contact.
func NewConversation(a, b string) (*Conversation, error) {
	id, err := ConversationID(a, b)
	if err != nil {
		return nil, err
	}
	first, second := SortParticipants(a, b)
	return &Conversation{
		ID:           id,
		ParticipantA: first,
		ParticipantB: second,
	}, nil
}

// HasParticipant reports whether userID is one of the two participants.
func (c *Conversation) HasParticipant(userID string) bool {
	return c.ParticipantA == userID || c.ParticipantB == userID
}

// OtherParticipant returns the peer of userID, or "" if userID is not a
// participant.
func (c *Conversation) OtherParticipant(userID string) string {
	switch userID {
	case c.ParticipantA:
		return c.ParticipantB
	case c.ParticipantB:
		return c.ParticipantA
	}
	return ""
}

// ConversationView is a conversation enriched for one viewer: the peer's
// directory profile plus the viewer-scoped unread count.
type ConversationView struct {
	Conversation
	Peer        UserProfile `json:"peer"`
	UnreadCount int64       `json:"unread_count"`
}

// SortConversationViews orders views by last activity, newest first. A
// conversation with no messages yet sorts as the oldest possible value.
func SortConversationViews(views []ConversationView) {
	sortViews(views)
}

func sortViews(views []ConversationView) {
	// insertion sort keeps already-sorted pushes cheap; lists are small
	for i := 1; i < len(views); i++ {
		for j := i; j > 0 && viewAfter(&views[j], &views[j-1]); j-- {
			views[j], views[j-1] = views[j-1], views[j]
		}
	}
}

func viewAfter(a, b *ConversationView) bool {
	switch {
	case a.LastMessageAt == nil:
		return false
	case b.LastMessageAt == nil:
		return true
	default:
		return a.LastMessageAt.After(*b.LastMessageAt)
	}
}
