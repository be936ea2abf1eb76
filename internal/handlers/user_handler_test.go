package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"food-order-api/internal/database"
	"food-order-api/internal/middleware"
	"food-order-api/internal/models"
	"food-order-api/internal/repository"
	"food-order-api/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var userTestSecret = []byte("test-secret")

func newUserRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	userService := services.NewUserService(repository.NewUserRepository(db))
	handler := NewUserHandler(userService, nil)

	router := gin.New()
	router.GET("/users/me", middleware.AuthRequired(userTestSecret), handler.Me)
	return router, db
}

func getMe(t *testing.T, router *gin.Engine, user *models.User) *httptest.ResponseRecorder {
	t.Helper()
	token, err := middleware.GenerateAccessToken(user, userTestSecret, time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestMeReturnsStoredProfile(t *testing.T) {
	router, db := newUserRouter(t)

	user := &models.User{
		Email:        "ayse@test.local",
		PasswordHash: "x",
		Name:         "Ayse Yilmaz",
		Address:      "Moda Cad. 12",
		Role:         string(models.RoleCustomer),
	}
	require.NoError(t, db.Create(user).Error)

	rec := getMe(t, router, user)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		User struct {
			Email   string `json:"email"`
			Name    string `json:"name"`
			Address string `json:"address"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ayse@test.local", body.User.Email)
	assert.Equal(t, "Ayse Yilmaz", body.User.Name)
	assert.Equal(t, "Moda Cad. 12", body.User.Address)
}

func TestMeRejectsDeletedUser(t *testing.T) {
	router, db := newUserRouter(t)

	user := &models.User{
		Email:        "gone@test.local",
		PasswordHash: "x",
		Name:         "Gone User",
		Role:         string(models.RoleCustomer),
	}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Delete(user).Error)

	// The token is still cryptographically valid, but the account is gone.
	rec := getMe(t, router, user)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
