package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/rvidyu/market-chitchat-39-sub000/pkg/utils"
)

// Message is a direct message between two marketplace users.
// Immutable once created except the IsRead flag, which only ever
// transitions false -> true. Messages are never deleted.
type Message struct {
	ID string `gorm:"primaryKey;type:text" json:"id"`

	// Derived sorted-pair id, stored for cheap per-conversation queries.
	ConversationID string `gorm:"index;type:text;not null" json:"conversationId"`

	SenderID    string `gorm:"index;type:text;not null" json:"senderId"`
	RecipientID string `gorm:"index;type:text;not null" json:"recipientId"`
	Text        string `gorm:"type:text" json:"text"`

	// Durable blob-storage URLs of uploaded attachments.
	Images pq.StringArray `gorm:"type:text[]" json:"images"`

	// Denormalized product snapshot taken at send time. Not re-synced
	// if the product later changes.
	ProductID    string `gorm:"type:text" json:"productId,omitempty"`
	ProductName  string `gorm:"type:text" json:"productName,omitempty"`
	ProductImage string `gorm:"type:text" json:"productImage,omitempty"`
	ProductPrice string `gorm:"type:text" json:"productPrice,omitempty"`

	IsRead bool       `gorm:"default:false;index" json:"isRead"`
	ReadAt *time.Time `json:"readAt"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`

	// Relations
	Sender    User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Recipient User `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = utils.NewID()
	}
	return
}

// HasProduct reports whether the message carries a product snapshot.
func (m *Message) HasProduct() bool {
	return m.ProductID != ""
}
