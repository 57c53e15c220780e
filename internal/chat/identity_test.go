package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversationIDCommutative(t *testing.T) {
	pairs := [][2]string{
		{"alice1", "bob2"},
		{"zed99", "aaa00"},
		{"u1", "u2"},
		{"same", "same"},
	}

	for _, p := range pairs {
		assert.Equal(t, ConversationID(p[0], p[1]), ConversationID(p[1], p[0]))
	}
}

func TestConversationIDSortsLexicographically(t *testing.T) {
	assert.Equal(t, "abc-xyz", ConversationID("xyz", "abc"))
	assert.Equal(t, "abc-xyz", ConversationID("abc", "xyz"))
}

func TestParseConversationIDRoundTrip(t *testing.T) {
	id := ConversationID("u2aaa", "u1bbb")
	a, b, err := ParseConversationID(id)

	assert.NoError(t, err)
	assert.Equal(t, "u1bbb", a)
	assert.Equal(t, "u2aaa", b)
}

func TestParseConversationIDRejectsMalformed(t *testing.T) {
	for _, bad := range []string{"", "noseparator", "a-b-c", "-b", "a-", "-"} {
		_, _, err := ParseConversationID(bad)
		assert.Error(t, err, "expected error for %q", bad)
	}
}

func TestPartnerID(t *testing.T) {
	id := ConversationID("u1", "u2")

	partner, err := PartnerID(id, "u1")
	assert.NoError(t, err)
	assert.Equal(t, "u2", partner)

	partner, err = PartnerID(id, "u2")
	assert.NoError(t, err)
	assert.Equal(t, "u1", partner)
}

func TestPartnerIDRejectsNonParticipant(t *testing.T) {
	_, err := PartnerID(ConversationID("u1", "u2"), "u3")
	assert.Error(t, err)
}
