package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/rvidyu/market-chitchat-39-sub000/internal/database"
	"github.com/rvidyu/market-chitchat-39-sub000/internal/models"
)

func TestQuickReplyCreateAndList(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	w := postJSON(CreateQuickReply, "u1qr", map[string]interface{}{
		"text":     "Thanks for your order!",
		"category": "orders",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var created struct {
		QuickReply models.QuickReply `json:"quickReply"`
	}
	json.Unmarshal(w.Body.Bytes(), &created)
	assert.NotEmpty(t, created.QuickReply.ID)
	assert.Equal(t, "orders", created.QuickReply.Category)

	w2 := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(w2)
	c2.Request, _ = http.NewRequest("GET", "/?category=orders", nil)
	c2.Set("userId", "u1qr")
	GetQuickReplies(c2)

	assert.Equal(t, http.StatusOK, w2.Code)
	var listed struct {
		QuickReplies []models.QuickReply `json:"quickReplies"`
	}
	json.Unmarshal(w2.Body.Bytes(), &listed)
	assert.Len(t, listed.QuickReplies, 1)
}

func TestQuickReplyUpdateOwnOnly(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	reply := models.QuickReply{UserID: "ownerqr", Text: "original", Category: "general"}
	database.DB.Create(&reply)

	update := func(userID string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		payload, _ := json.Marshal(map[string]string{"text": "changed"})
		c.Request, _ = http.NewRequest("PUT", "/", bytes.NewReader(payload))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: reply.ID}}
		c.Set("userId", userID)
		UpdateQuickReply(c)
		return w
	}

	// A stranger cannot touch it
	assert.Equal(t, http.StatusNotFound, update("intruderqr").Code)

	// The owner can
	assert.Equal(t, http.StatusOK, update("ownerqr").Code)

	var stored models.QuickReply
	database.DB.First(&stored, "id = ?", reply.ID)
	assert.Equal(t, "changed", stored.Text)
}

func TestQuickReplyDelete(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	reply := models.QuickReply{UserID: "delqr", Text: "bye"}
	database.DB.Create(&reply)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("DELETE", "/", nil)
	c.Params = gin.Params{{Key: "id", Value: reply.ID}}
	c.Set("userId", "delqr")
	DeleteQuickReply(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	database.DB.Model(&models.QuickReply{}).Where("id = ?", reply.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}
