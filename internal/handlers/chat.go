package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"

	"github.com/rvidyu/market-chitchat-39-sub000/internal/chat"
	"github.com/rvidyu/market-chitchat-39-sub000/internal/database"
	"github.com/rvidyu/market-chitchat-39-sub000/internal/models"
	apperrors "github.com/rvidyu/market-chitchat-39-sub000/pkg/errors"
	"github.com/rvidyu/market-chitchat-39-sub000/pkg/logger"
	"github.com/rvidyu/market-chitchat-39-sub000/pkg/utils"
)

const maxMessageLength = 4000

// Bridge routes new-message events to per-viewer subscriptions.
// Process-wide, wired to the socket layer at startup.
var Bridge = chat.NewBridge()

// ProfileCache is the in-process TTL tier for partner display profiles.
var ProfileCache = chat.NewProfileCache(chat.DefaultProfileTTL, nil)

// lookupProfile is the uncached resolver backing the aggregator.
func lookupProfile(userID string) (chat.Profile, error) {
	var user models.User
	if err := database.DB.Select("id", "name", "username", "image").
		First(&user, "id = ?", userID).Error; err != nil {
		return chat.Profile{}, err
	}
	return chat.Profile{
		ID:       user.ID,
		Name:     user.Name,
		Username: user.Username,
		Image:    user.Image,
	}, nil
}

// fetchMessagesForUser returns every message the user participates in,
// newest first. The aggregator re-sorts per conversation.
func fetchMessagesForUser(userID string) ([]models.Message, error) {
	var messages []models.Message
	err := database.DB.
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at desc").
		Find(&messages).Error
	return messages, err
}

// GetConversations returns the viewer's aggregated conversation list.
func GetConversations(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	messages, err := fetchMessagesForUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conversations"})
		return
	}

	conversations := chat.BuildConversations(messages, userID, ProfileCache.Resolver(lookupProfile))

	// Presence is live socket state, not part of the pure aggregation.
	for i := range conversations {
		conversations[i].Partner.IsOnline = IsUserOnline(conversations[i].Partner.ID)
	}

	c.JSON(http.StatusOK, gin.H{"conversations": conversations})
}

// GetMessages returns all messages for the viewer, newest first.
func GetMessages(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	messages, err := fetchMessagesForUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

type sendMessageRequest struct {
	RecipientID string   `json:"recipientId" binding:"required"`
	Text        string   `json:"text"`
	Images      []string `json:"images"`

	// Optional denormalized product snapshot
	ProductID    string `json:"productId"`
	ProductName  string `json:"productName"`
	ProductImage string `json:"productImage"`
	ProductPrice string `json:"productPrice"`
}

// SendMessage persists a new message after recipient and block checks,
// then fans it out over the socket layer and the bridge.
func SendMessage(c *gin.Context) {
	senderID := c.MustGet("userId").(string)

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.Text == "" && len(req.Images) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message must contain text or images"})
		return
	}
	if req.RecipientID == senderID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot message yourself"})
		return
	}

	var recipient models.User
	if err := database.DB.Select("id").First(&recipient, "id = ?", req.RecipientID).Error; err != nil {
		c.JSON(apperrors.ErrRecipientNotFound.Code, gin.H{"error": apperrors.ErrRecipientNotFound.Message})
		return
	}

	// Authoritative block enforcement: either direction refuses the write.
	blocked, err := IsBlockedEitherWay(senderID, req.RecipientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify block status"})
		return
	}
	if blocked {
		c.JSON(apperrors.ErrBlocked.Code, gin.H{"error": apperrors.ErrBlocked.Message})
		return
	}

	msg := models.Message{
		ConversationID: chat.ConversationID(senderID, req.RecipientID),
		SenderID:       senderID,
		RecipientID:    req.RecipientID,
		Text:           utils.SanitizeHTML(utils.TruncateString(req.Text, maxMessageLength)),
		Images:         pq.StringArray(req.Images),
		ProductID:      req.ProductID,
		ProductName:    req.ProductName,
		ProductImage:   req.ProductImage,
		ProductPrice:   req.ProductPrice,
		CreatedAt:      time.Now(),
	}

	if err := database.DB.Create(&msg).Error; err != nil {
		logger.Error().Err(err).Str("sender", senderID).Msg("Failed to persist message")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	// Real-time emission: recipient room plus sender room for multi-device sync.
	if SocketServer != nil {
		data := map[string]interface{}{"message": msg}
		SocketServer.BroadcastToRoom("/", msg.RecipientID, "receive_message", data)
		SocketServer.BroadcastToRoom("/", msg.SenderID, "receive_message", data)
	}
	Bridge.Publish(msg)

	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// MarkRead marks the counterpart's unread messages in a conversation
// as read. Idempotent: a second call affects zero rows.
func MarkRead(c *gin.Context) {
	viewerID := c.MustGet("userId").(string)
	conversationID := c.Param("conversationId")

	otherID, err := chat.PartnerID(conversationID, viewerID)
	if err != nil {
		c.JSON(apperrors.ErrInvalidConversationID.Code, gin.H{"error": apperrors.ErrInvalidConversationID.Message})
		return
	}

	result := database.DB.Model(&models.Message{}).
		Where("sender_id = ? AND recipient_id = ? AND is_read = ?", otherID, viewerID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": time.Now(),
		})

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark read"})
		return
	}

	// Tell the counterpart their messages were read
	if SocketServer != nil && result.RowsAffected > 0 {
		SocketServer.BroadcastToRoom("/", otherID, "message_read", map[string]interface{}{
			"conversationId": conversationID,
			"readerId":       viewerID,
		})
	}

	c.JSON(http.StatusOK, gin.H{"markedRead": result.RowsAffected})
}

// MarkConversationRead is the bridge's read path for live messages in
// the active conversation. Errors are logged, not surfaced; the
// polling backstop reconciles state.
func MarkConversationRead(conversationID, viewerID string) {
	otherID, err := chat.PartnerID(conversationID, viewerID)
	if err != nil {
		logger.Warn().Str("conversation", conversationID).Msg("Bridge received malformed conversation id")
		return
	}
	result := database.DB.Model(&models.Message{}).
		Where("sender_id = ? AND recipient_id = ? AND is_read = ?", otherID, viewerID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": time.Now(),
		})
	if result.Error != nil {
		logger.Error().Err(result.Error).Msg("Bridge mark-read failed")
	}
}
