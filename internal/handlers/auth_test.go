package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamtrack/workforce-api/internal/constants"
	"github.com/teamtrack/workforce-api/internal/database"
	"github.com/teamtrack/workforce-api/internal/middleware"
	"github.com/teamtrack/workforce-api/internal/models"
	"github.com/teamtrack/workforce-api/internal/repository"
	"github.com/teamtrack/workforce-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type authTestEnv struct {
	db      *gorm.DB
	handler *AuthHandler
	router  *gin.Engine
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{})
	require.NoError(t, err)

	database.SetDB(db)

	userRepo := repository.NewUserRepository(db)
	authService := services.NewAuthService(userRepo)
	handler := NewAuthHandler(authService)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	r.POST("/api/auth/signup", handler.Signup)
	r.POST("/api/auth/login", handler.Login)
	r.POST("/api/auth/logout", handler.Logout)
	r.GET("/api/auth/me", middleware.RequireAuth(), handler.GetCurrentUser)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return authTestEnv{
		db:      db,
		handler: handler,
		router:  r,
	}
}

func (env authTestEnv) doJSON(method, url string, payload interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var body *bytes.Reader
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, url, body)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Signup(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.doJSON(http.MethodPost, "/api/auth/signup", map[string]string{
		"username": "newuser",
		"name":     "New User",
		"password": "supersecret",
	}, nil)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "newuser", data["username"])
	assert.Equal(t, "user", data["role"])
	// The password hash must never appear in the response.
	assert.NotContains(t, w.Body.String(), "password")
}

func TestAuthHandler_Signup_DuplicateUsername(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.doJSON(http.MethodPost, "/api/auth/signup", map[string]string{
		"username": "newuser",
		"password": "supersecret",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.doJSON(http.MethodPost, "/api/auth/signup", map[string]string{
		"username": "newuser",
		"password": "othersecret",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Signup_ShortPassword(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.doJSON(http.MethodPost, "/api/auth/signup", map[string]string{
		"username": "newuser",
		"password": "short",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_LoginAndMe(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.doJSON(http.MethodPost, "/api/auth/signup", map[string]string{
		"username": "alice",
		"password": "supersecret",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.doJSON(http.MethodPost, "/api/auth/login", map[string]string{
		"username": "alice",
		"password": "supersecret",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	w = env.doJSON(http.MethodGet, "/api/auth/me", nil, cookies)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "alice", data["username"])
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.doJSON(http.MethodPost, "/api/auth/signup", map[string]string{
		"username": "alice",
		"password": "supersecret",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.doJSON(http.MethodPost, "/api/auth/login", map[string]string{
		"username": "alice",
		"password": "wrongpassword",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.doJSON(http.MethodGet, "/api/auth/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Me_DisabledAccount(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.doJSON(http.MethodPost, "/api/auth/signup", map[string]string{
		"username": "alice",
		"password": "supersecret",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.doJSON(http.MethodPost, "/api/auth/login", map[string]string{
		"username": "alice",
		"password": "supersecret",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()

	// Deactivating the account invalidates existing sessions.
	require.NoError(t, env.db.Model(&models.User{}).
		Where("username = ?", "alice").
		Update("active", false).Error)

	w = env.doJSON(http.MethodGet, "/api/auth/me", nil, cookies)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.doJSON(http.MethodPost, "/api/auth/signup", map[string]string{
		"username": "alice",
		"password": "supersecret",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.doJSON(http.MethodPost, "/api/auth/login", map[string]string{
		"username": "alice",
		"password": "supersecret",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()

	w = env.doJSON(http.MethodPost, "/api/auth/logout", nil, cookies)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthHandler_Login_InvalidBody(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.doJSON(http.MethodPost, "/api/auth/login", map[string]string{
		"username": "alice",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
