package models

import "time"

// BlockRelationship prevents messaging from BlockerID's side.
// Rows are always created and deleted in symmetric pairs inside one
// transaction, so a one-directional block never outlives the tx.
type BlockRelationship struct {
	BlockerID string    `gorm:"primaryKey;type:text" json:"blockerId"`
	BlockedID string    `gorm:"primaryKey;type:text" json:"blockedId"`
	CreatedAt time.Time `json:"createdAt"`
}

// SpamFlag marks a conversation as spam from the reporter's side.
// Membership in the spam set; removed on undo or mark-not-spam. Keyed
// per reporter so both participants can flag the same conversation
// independently.
type SpamFlag struct {
	ConversationID string    `gorm:"primaryKey;type:text" json:"conversationId"`
	ReporterID     string    `gorm:"primaryKey;type:text" json:"reporterId"`
	CreatedAt      time.Time `json:"createdAt"`
}
