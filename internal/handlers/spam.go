package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rvidyu/market-chitchat-39-sub000/internal/chat"
	"github.com/rvidyu/market-chitchat-39-sub000/internal/database"
	"github.com/rvidyu/market-chitchat-39-sub000/internal/models"
	apperrors "github.com/rvidyu/market-chitchat-39-sub000/pkg/errors"
	"github.com/rvidyu/market-chitchat-39-sub000/pkg/logger"
)

// UndoWindow tracks the last spam report per viewer for the undo
// affordance. Reports become final once the window expires.
var UndoWindow = chat.NewUndoTracker(chat.DefaultUndoWindow)

// IsBlockedEitherWay reports whether a block relationship exists in
// either direction between the two users.
func IsBlockedEitherWay(a, b string) (bool, error) {
	var count int64
	err := database.DB.Model(&models.BlockRelationship{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)", a, b, b, a).
		Count(&count).Error
	return count > 0, err
}

// createBlockPair inserts both directions of a block inside one tx so
// the symmetric invariant never escapes the transaction boundary.
// Idempotent: re-reporting, or the other participant reporting, finds
// the pair already in place.
func createBlockPair(tx *gorm.DB, a, b string) error {
	now := time.Now()
	rows := []models.BlockRelationship{
		{BlockerID: a, BlockedID: b, CreatedAt: now},
		{BlockerID: b, BlockedID: a, CreatedAt: now},
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func deleteBlockPair(tx *gorm.DB, a, b string) error {
	return tx.
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)", a, b, b, a).
		Delete(&models.BlockRelationship{}).Error
}

// errNotReporter marks a removal attempt by someone other than the
// flag's reporter; in particular the blocked counterpart must never be
// able to dissolve the block through this path.
var errNotReporter = errors.New("conversation not flagged by viewer")

// removeSpamState deletes the viewer's own spam flag in one tx, and the
// block pair with it once no flag on the conversation remains. Shared
// end state for undo and mark-not-spam.
func removeSpamState(conversationID, viewerID, otherID string) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("conversation_id = ? AND reporter_id = ?", conversationID, viewerID).
			Delete(&models.SpamFlag{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errNotReporter
		}

		// The counterpart's flag keeps the block alive.
		var remaining int64
		if err := tx.Model(&models.SpamFlag{}).
			Where("conversation_id = ?", conversationID).
			Count(&remaining).Error; err != nil {
			return err
		}
		if remaining > 0 {
			return nil
		}
		return deleteBlockPair(tx, viewerID, otherID)
	})
}

// ReportSpam flags a conversation as spam and blocks the counterpart
// in both directions, then arms the undo window.
func ReportSpam(c *gin.Context) {
	viewerID := c.MustGet("userId").(string)
	conversationID := c.Param("conversationId")

	otherID, err := chat.PartnerID(conversationID, viewerID)
	if err != nil {
		c.JSON(apperrors.ErrInvalidConversationID.Code, gin.H{"error": apperrors.ErrInvalidConversationID.Message})
		return
	}

	// Idempotent: a double-click or re-report lands on the existing
	// flag and still re-arms the undo window.
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		flag := models.SpamFlag{
			ConversationID: conversationID,
			ReporterID:     viewerID,
			CreatedAt:      time.Now(),
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&flag).Error; err != nil {
			return err
		}
		return createBlockPair(tx, viewerID, otherID)
	})
	if err != nil {
		logger.Error().Err(err).Str("conversation", conversationID).Msg("Failed to report spam")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to report spam"})
		return
	}

	UndoWindow.Arm(viewerID, conversationID)

	c.JSON(http.StatusOK, gin.H{
		"conversationId": conversationID,
		"undoExpiresIn":  chat.DefaultUndoWindow.Milliseconds(),
	})
}

// UndoSpam reverses the last spam report while its window is armed.
func UndoSpam(c *gin.Context) {
	viewerID := c.MustGet("userId").(string)

	conversationID, ok := UndoWindow.Consume(viewerID)
	if !ok {
		c.JSON(http.StatusGone, gin.H{"error": "Nothing to undo"})
		return
	}

	otherID, err := chat.PartnerID(conversationID, viewerID)
	if err != nil {
		c.JSON(apperrors.ErrInvalidConversationID.Code, gin.H{"error": apperrors.ErrInvalidConversationID.Message})
		return
	}

	if err := removeSpamState(conversationID, viewerID, otherID); err != nil {
		if errors.Is(err, errNotReporter) {
			// Report already dissolved through mark-not-spam.
			c.JSON(http.StatusGone, gin.H{"error": "Nothing to undo"})
			return
		}
		// Keep the report undoable so a retry can succeed.
		UndoWindow.Arm(viewerID, conversationID)
		logger.Error().Err(err).Str("conversation", conversationID).Msg("Failed to undo spam report")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to undo spam report"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversationId": conversationID, "undone": true})
}

// MarkNotSpam reaches the same end state as undo, but independently of
// the window (spam folder UI).
func MarkNotSpam(c *gin.Context) {
	viewerID := c.MustGet("userId").(string)
	conversationID := c.Param("conversationId")

	otherID, err := chat.PartnerID(conversationID, viewerID)
	if err != nil {
		c.JSON(apperrors.ErrInvalidConversationID.Code, gin.H{"error": apperrors.ErrInvalidConversationID.Message})
		return
	}

	if err := removeSpamState(conversationID, viewerID, otherID); err != nil {
		if errors.Is(err, errNotReporter) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversation is not in your spam list"})
			return
		}
		logger.Error().Err(err).Str("conversation", conversationID).Msg("Failed to mark not spam")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark not spam"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversationId": conversationID, "spam": false})
}

// ListSpam returns the viewer's spam-flagged conversation ids.
func ListSpam(c *gin.Context) {
	viewerID := c.MustGet("userId").(string)

	var flags []models.SpamFlag
	if err := database.DB.Where("reporter_id = ?", viewerID).
		Order("created_at desc").Find(&flags).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch spam list"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"spam": flags})
}
