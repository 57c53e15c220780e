package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rvidyu/market-chitchat-39-sub000/internal/database"
	"github.com/rvidyu/market-chitchat-39-sub000/internal/models"
	"github.com/rvidyu/market-chitchat-39-sub000/pkg/utils"
)

// GetContacts returns users the viewer has a conversation with,
// ordered by most recent message. An optional search term narrows the
// list by display name.
func GetContacts(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	query := `
		SELECT u.* FROM users u
		JOIN (
			SELECT
				CASE WHEN sender_id = ? THEN recipient_id ELSE sender_id END AS partner_id,
				MAX(created_at) AS last_msg_at
			FROM messages
			WHERE sender_id = ? OR recipient_id = ?
			GROUP BY 1
		) p ON p.partner_id = u.id
	`
	args := []interface{}{userID, userID, userID}

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		query += ` WHERE u.name LIKE ? ESCAPE '\'`
		args = append(args, "%"+utils.EscapeSQLWildcards(search)+"%")
	}
	query += ` ORDER BY p.last_msg_at DESC`

	var contacts []models.User
	if err := database.DB.Raw(query, args...).Scan(&contacts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch contacts"})
		return
	}

	for i := range contacts {
		contacts[i].IsOnline = IsUserOnline(contacts[i].ID)
	}

	c.JSON(http.StatusOK, gin.H{"contacts": contacts})
}

// GetUser returns a single profile, through the cross-process cache.
func GetUser(c *gin.Context) {
	id := c.Param("id")
	if !utils.IsValidID(id) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	var user models.User
	cacheKey := "profile:" + id
	if database.Redis != nil && database.CacheGet(cacheKey, &user) == nil {
		user.IsOnline = IsUserOnline(user.ID)
		c.JSON(http.StatusOK, gin.H{"user": user})
		return
	}

	if err := database.DB.First(&user, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if database.Redis != nil {
		database.CacheSet(cacheKey, user, 10*time.Minute)
	}

	user.IsOnline = IsUserOnline(user.ID)
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateUserImage persists a new avatar URL and invalidates both cache
// tiers so the next aggregation picks it up.
func UpdateUserImage(userID, url string) error {
	if err := database.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Update("image", url).Error; err != nil {
		return err
	}
	ProfileCache.Invalidate(userID)
	if database.Redis != nil {
		database.CacheInvalidate("profile:" + userID)
	}
	return nil
}
