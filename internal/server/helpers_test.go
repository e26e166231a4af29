package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ripple/internal/config"
	"ripple/internal/models"
	"ripple/internal/notifications"
	"ripple/internal/repository"
	"ripple/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testJWTSecret = "handler-test-secret"

// newTestServer wires a Server over an in-memory database with real repos and
// services, and registers the full route table on a bare app.
func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Like{},
		&models.Message{},
	))

	cfg := &config.Config{
		JWTSecret:       testJWTSecret,
		Port:            "0",
		AvatarUploadDir: t.TempDir(),
		AvatarMaxSizeMB: 5,
	}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	msgRepo := repository.NewMessageRepository(db)
	hub := notifications.NewHub()

	s := &Server{
		config:   cfg,
		db:       db,
		userRepo: userRepo,
		postRepo: postRepo,
		msgRepo:  msgRepo,
		hub:      hub,
	}
	s.userService = service.NewUserService(userRepo, cfg.JWTSecret)
	s.postService = service.NewPostService(postRepo)
	s.messageService = service.NewMessageService(msgRepo, userRepo, hub)
	s.avatarService = service.NewAvatarService(userRepo, cfg.AvatarUploadDir, cfg.AvatarMaxSizeMB)

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload any) *http.Response {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// signupAndLogin registers a user through the API and returns the id and a
// valid bearer token.
func signupAndLogin(t *testing.T, app *fiber.App, username string) (uint, string) {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.User
	decodeBody(t, resp, &created)

	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": username,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login struct {
		AccessToken string `json:"access_token"`
	}
	decodeBody(t, resp, &login)
	require.NotEmpty(t, login.AccessToken)

	return created.ID, login.AccessToken
}
