package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/rvidyu/market-chitchat-39-sub000/pkg/utils"
)

// QuickReply is a reusable message template owned by a single user.
type QuickReply struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	UserID    string    `gorm:"index;type:text;not null" json:"userId"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Category  string    `gorm:"type:text;default:'general'" json:"category"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (q *QuickReply) BeforeCreate(tx *gorm.DB) (err error) {
	if q.ID == "" {
		q.ID = utils.NewID()
	}
	return
}
