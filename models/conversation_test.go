package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationID(t *testing.T) {
	tests := []struct {
		name    string
		a, b    string
		want    string
		wantErr error
	}{
		{name: "already sorted", a: "alice", b: "bob", want: "alice_bob"},
		{name: "reversed input", a: "bob", b: "alice", want: "alice_bob"},
		{name: "same user", a: "alice", b: "alice", wantErr: ErrSelfConversation},
		{name: "empty first", a: "", b: "bob", wantErr: ErrEmptyParticipant},
		{name: "empty second", a: "alice", b: "", wantErr: ErrEmptyParticipant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ConversationID(tt.a, tt.b)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConversationIDSymmetry(t *testing.T) {
	pairs := [][2]string{
		{"alice", "bob"},
		{"user-9", "user-10"},
		{"academy:1", "player:1"},
	}
	for _, p := range pairs {
		ab, err := ConversationID(p[0], p[1])
		require.NoError(t, err)
		ba, err := ConversationID(p[1], p[0])
		require.NoError(t, err)
		assert.Equal(t, ab, ba)
	}
}

func TestNewConversationStoresSortedParticipants(t *testing.T) {
	conv, err := NewConversation("zed", "amy")
	require.NoError(t, err)
	assert.Equal(t, "amy", conv.ParticipantA)
	assert.Equal(t, "zed", conv.ParticipantB)
	assert.Equal(t, "amy_zed", conv.ID)
}

func TestConversationParticipants(t *testing.T) {
	conv, err := NewConversation("alice", "bob")
	require.NoError(t, err)

	assert.True(t, conv.HasParticipant("alice"))
	assert.True(t, conv.HasParticipant("bob"))
	assert.False(t, conv.HasParticipant("carol"))

	assert.Equal(t, "bob", conv.OtherParticipant("alice"))
	assert.Equal(t, "alice", conv.OtherParticipant("bob"))
	assert.Equal(t, "", conv.OtherParticipant("carol"))
}

func TestSortConversationViews(t *testing.T) {
	now := time.Now()
	older := now.Add(-time.Hour)

	views := []ConversationView{
		{Conversation: Conversation{ID: "no-messages"}},
		{Conversation: Conversation{ID: "older", LastMessageAt: &older}},
		{Conversation: Conversation{ID: "newest", LastMessageAt: &now}},
	}
	SortConversationViews(views)

	assert.Equal(t, "newest", views[0].ID)
	assert.Equal(t, "older", views[1].ID)
	// a conversation without messages sorts as the oldest possible value
	assert.Equal(t, "no-messages", views[2].ID)
}
