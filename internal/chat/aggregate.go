package chat

import (
	"sort"

	"github.com/rvidyu/market-chitchat-39-sub000/internal/models"
)

// Conversation is the derived per-partner view: never stored, rebuilt
// from the flat message set on every read.
type Conversation struct {
	ID           string           `json:"id"`
	Partner      Profile          `json:"partner"`
	Messages     []models.Message `json:"messages"` // chronological
	LastActivity int64            `json:"lastActivity"`
	UnreadCount  int              `json:"unreadCount"`
}

// placeholderName derives a fallback display name from a prefix of the
// partner id when the profile lookup fails. Aggregation must never
// fail because of a missing profile.
func placeholderName(partnerID string) string {
	const prefixLen = 8
	if len(partnerID) > prefixLen {
		partnerID = partnerID[:prefixLen]
	}
	return "user-" + partnerID
}

// BuildConversations folds the viewer's flat message set into a list
// of Conversation views. Pure function of its inputs: a total rebuild
// on each call, safe to invoke repeatedly without double-counting.
//
// The store hands messages newest-first; each group is re-sorted
// ascending because conversation rendering needs chronological order.
// Conversations come back ordered by last activity, newest first.
func BuildConversations(msgs []models.Message, viewerID string, resolve ProfileResolver) []Conversation {
	groups := make(map[string]*Conversation)
	order := make([]string, 0)

	for _, m := range msgs {
		partnerID := m.RecipientID
		if m.SenderID != viewerID {
			partnerID = m.SenderID
		}
		convID := ConversationID(viewerID, partnerID)

		conv, ok := groups[convID]
		if !ok {
			partner := resolveProfile(resolve, partnerID)
			conv = &Conversation{ID: convID, Partner: partner}
			groups[convID] = conv
			order = append(order, convID)
		}

		conv.Messages = append(conv.Messages, m)
		if ts := m.CreatedAt.UnixMilli(); ts > conv.LastActivity {
			conv.LastActivity = ts
		}
		if m.SenderID != viewerID && !m.IsRead {
			conv.UnreadCount++
		}
	}

	out := make([]Conversation, 0, len(order))
	for _, id := range order {
		conv := groups[id]
		sort.SliceStable(conv.Messages, func(i, j int) bool {
			return conv.Messages[i].CreatedAt.Before(conv.Messages[j].CreatedAt)
		})
		out = append(out, *conv)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastActivity > out[j].LastActivity
	})
	return out
}

func resolveProfile(resolve ProfileResolver, partnerID string) Profile {
	if resolve == nil {
		return Profile{ID: partnerID, Name: placeholderName(partnerID)}
	}
	p, err := resolve(partnerID)
	if err != nil || p.ID == "" {
		return Profile{ID: partnerID, Name: placeholderName(partnerID)}
	}
	return p
}
