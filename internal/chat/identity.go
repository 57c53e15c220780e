// Package chat holds the messaging core: conversation identity,
// aggregation of the flat message log into conversation views, the
// realtime delivery bridge, the profile cache and the spam-undo window.
// Everything here is UI-framework-agnostic and persistence-free; the
// handlers layer wires it to gorm and socket.io.
package chat

import (
	"strings"

	apperrors "github.com/rvidyu/market-chitchat-39-sub000/pkg/errors"
)

// Separator joins the two sorted participant ids. Ids are hyphen-free
// (utils.NewID), so the split back is unambiguous.
const Separator = "-"

// ConversationID derives the stable conversation id for an unordered
// pair of participants: lexicographic sort, hyphen join. Commutative:
// ConversationID(a, b) == ConversationID(b, a). A degenerate a == b is
// not rejected here; callers that care must refuse it themselves.
func ConversationID(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + Separator + b
}

// ParseConversationID decodes a conversation id into its two
// participant ids. Fails unless the id splits into exactly two
// non-empty segments.
func ParseConversationID(id string) (string, string, error) {
	parts := strings.Split(id, Separator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", apperrors.ErrInvalidConversationID
	}
	return parts[0], parts[1], nil
}

// PartnerID returns the participant of conversationID that is not the
// viewer. Fails if the id is malformed or the viewer is not a
// participant. Silently proceeding with a wrong "other user" is how
// read-marking and block-derivation corrupt state.
func PartnerID(conversationID, viewerID string) (string, error) {
	a, b, err := ParseConversationID(conversationID)
	if err != nil {
		return "", err
	}
	switch viewerID {
	case a:
		return b, nil
	case b:
		return a, nil
	default:
		return "", apperrors.ErrInvalidConversationID
	}
}
