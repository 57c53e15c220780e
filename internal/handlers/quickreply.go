package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rvidyu/market-chitchat-39-sub000/internal/database"
	"github.com/rvidyu/market-chitchat-39-sub000/internal/models"
	"github.com/rvidyu/market-chitchat-39-sub000/pkg/utils"
)

const maxQuickReplyLength = 500

// GetQuickReplies lists the viewer's templates, optionally by category.
func GetQuickReplies(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	q := database.DB.Where("user_id = ?", userID)
	if category := c.Query("category"); category != "" {
		q = q.Where("category = ?", category)
	}

	var replies []models.QuickReply
	if err := q.Order("updated_at desc").Find(&replies).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch quick replies"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"quickReplies": replies})
}

type quickReplyRequest struct {
	Text     string `json:"text" binding:"required"`
	Category string `json:"category"`
}

// CreateQuickReply adds a new template for the viewer.
func CreateQuickReply(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	var req quickReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	reply := models.QuickReply{
		UserID:    userID,
		Text:      utils.SanitizeHTML(utils.TruncateString(req.Text, maxQuickReplyLength)),
		Category:  req.Category,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if reply.Category == "" {
		reply.Category = "general"
	}

	if err := database.DB.Create(&reply).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create quick reply"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"quickReply": reply})
}

// UpdateQuickReply edits a template the viewer owns.
func UpdateQuickReply(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	id := c.Param("id")

	var req quickReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	updates := map[string]interface{}{
		"text":       utils.SanitizeHTML(utils.TruncateString(req.Text, maxQuickReplyLength)),
		"updated_at": time.Now(),
	}
	if req.Category != "" {
		updates["category"] = req.Category
	}

	result := database.DB.Model(&models.QuickReply{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update quick reply"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Quick reply not found"})
		return
	}

	var reply models.QuickReply
	database.DB.First(&reply, "id = ?", id)
	c.JSON(http.StatusOK, gin.H{"quickReply": reply})
}

// DeleteQuickReply removes a template the viewer owns.
func DeleteQuickReply(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	id := c.Param("id")

	result := database.DB.Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.QuickReply{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete quick reply"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Quick reply not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
