package chat

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rvidyu/market-chitchat-39-sub000/internal/models"
)

func fixedResolver(names map[string]string) ProfileResolver {
	return func(userID string) (Profile, error) {
		name, ok := names[userID]
		if !ok {
			return Profile{}, errors.New("profile not found")
		}
		return Profile{ID: userID, Name: name}, nil
	}
}

func msgAt(sender, recipient, text string, ts time.Time) models.Message {
	return models.Message{
		ConversationID: ConversationID(sender, recipient),
		SenderID:       sender,
		RecipientID:    recipient,
		Text:           text,
		CreatedAt:      ts,
	}
}

func TestBuildConversationsSingleOwnMessage(t *testing.T) {
	t1 := time.Now().Add(-time.Hour)
	msgs := []models.Message{msgAt("u1", "u2", "Hello", t1)}

	convs := BuildConversations(msgs, "u1", fixedResolver(map[string]string{"u2": "Bea"}))

	assert.Len(t, convs, 1)
	assert.Equal(t, ConversationID("u1", "u2"), convs[0].ID)
	assert.Len(t, convs[0].Messages, 1)
	// Own message never counts as unread for the sender
	assert.Equal(t, 0, convs[0].UnreadCount)
	assert.Equal(t, "Bea", convs[0].Partner.Name)
}

func TestBuildConversationsReplyGroupsAndCounts(t *testing.T) {
	t1 := time.Now().Add(-2 * time.Hour)
	t2 := time.Now().Add(-1 * time.Hour)
	// Store hands messages newest-first
	msgs := []models.Message{
		msgAt("u2", "u1", "Hi", t2),
		msgAt("u1", "u2", "Hello", t1),
	}

	convs := BuildConversations(msgs, "u1", fixedResolver(map[string]string{"u2": "Bea"}))

	assert.Len(t, convs, 1)
	assert.Equal(t, ConversationID("u1", "u2"), convs[0].ID)
	assert.Len(t, convs[0].Messages, 2)
	// Chronological order within the conversation
	assert.Equal(t, "Hello", convs[0].Messages[0].Text)
	assert.Equal(t, "Hi", convs[0].Messages[1].Text)
	assert.Equal(t, 1, convs[0].UnreadCount)
	assert.Equal(t, t2.UnixMilli(), convs[0].LastActivity)
}

func TestBuildConversationsReadMessagesNotCounted(t *testing.T) {
	m := msgAt("u2", "u1", "Hi", time.Now())
	m.IsRead = true

	convs := BuildConversations([]models.Message{m}, "u1", fixedResolver(map[string]string{"u2": "Bea"}))

	assert.Len(t, convs, 1)
	assert.Equal(t, 0, convs[0].UnreadCount)
}

func TestBuildConversationsOrderedByLastActivity(t *testing.T) {
	old := time.Now().Add(-3 * time.Hour)
	recent := time.Now().Add(-time.Minute)
	msgs := []models.Message{
		msgAt("u2", "u1", "old convo", old),
		msgAt("u3", "u1", "recent convo", recent),
	}

	convs := BuildConversations(msgs, "u1", fixedResolver(map[string]string{"u2": "Bea", "u3": "Cal"}))

	assert.Len(t, convs, 2)
	assert.Equal(t, ConversationID("u1", "u3"), convs[0].ID)
	assert.Equal(t, ConversationID("u1", "u2"), convs[1].ID)
}

func TestBuildConversationsIdempotent(t *testing.T) {
	msgs := []models.Message{
		msgAt("u2", "u1", "Hi", time.Now().Add(-time.Hour)),
		msgAt("u1", "u2", "Hello", time.Now().Add(-2*time.Hour)),
	}
	resolver := fixedResolver(map[string]string{"u2": "Bea"})

	first := BuildConversations(msgs, "u1", resolver)
	second := BuildConversations(msgs, "u1", resolver)

	// Total rebuild each call, never an incremental merge
	assert.Equal(t, first, second)
	assert.Equal(t, 1, second[0].UnreadCount)
}

func TestBuildConversationsProfileFallback(t *testing.T) {
	partner := "deadbeef12345678"
	msgs := []models.Message{msgAt(partner, "u1", "yo", time.Now())}

	convs := BuildConversations(msgs, "u1", fixedResolver(nil))

	assert.Len(t, convs, 1)
	assert.Equal(t, "user-deadbeef", convs[0].Partner.Name)
	assert.Equal(t, partner, convs[0].Partner.ID)
}

func TestBuildConversationsEmptyInput(t *testing.T) {
	convs := BuildConversations(nil, "u1", nil)
	assert.Empty(t, convs)
}
