package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rvidyu/market-chitchat-39-sub000/internal/config"
	"github.com/rvidyu/market-chitchat-39-sub000/internal/database"
	"github.com/rvidyu/market-chitchat-39-sub000/internal/models"
	"github.com/rvidyu/market-chitchat-39-sub000/pkg/utils"
)

func setupAuthRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	config.AppConfig = &config.Config{JWTSecret: "test-secret"}

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	assert.NoError(t, err)
	database.DB = db
	database.DB.AutoMigrate(&models.User{})

	r := gin.New()
	r.GET("/protected", AuthMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": c.MustGet("userId")})
	})
	return r
}

func getWithToken(r *gin.Engine, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareAcceptsIssuedToken(t *testing.T) {
	r := setupAuthRouter(t)

	user := models.User{ID: "u1auth", Username: "u1auth", Email: "u1auth@example.com"}
	database.DB.Create(&user)

	token, err := utils.GenerateToken("u1auth")
	assert.NoError(t, err)

	w := getWithToken(r, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "u1auth")
}

func TestAuthMiddlewareRejectsUnknownUser(t *testing.T) {
	r := setupAuthRouter(t)

	token, err := utils.GenerateToken("ghost")
	assert.NoError(t, err)

	w := getWithToken(r, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	r := setupAuthRouter(t)

	w := getWithToken(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsGarbageToken(t *testing.T) {
	r := setupAuthRouter(t)

	w := getWithToken(r, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
