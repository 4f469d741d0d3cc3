package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/snowballopensource/snowball-api/internal/database"
	"github.com/snowballopensource/snowball-api/internal/handlers"
	"github.com/snowballopensource/snowball-api/internal/models"
	"github.com/snowballopensource/snowball-api/internal/routes"
	"github.com/snowballopensource/snowball-api/internal/services"
	"github.com/snowballopensource/snowball-api/internal/sms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	followService := services.NewFollowService(db, nil)
	authService := services.NewAuthService(db, sms.LogSender{}, followService)
	userService := services.NewUserService(db)
	clipService := services.NewClipService(db)
	streamService := services.NewStreamService(db, followService, "onboarding@snowball.is")

	app := fiber.New()
	routes.Setup(app, db,
		handlers.NewAuthHandler(authService),
		handlers.NewUserHandler(userService, followService),
		handlers.NewClipHandler(clipService, streamService, userService),
		handlers.NewFollowHandler(followService, userService),
	)
	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func signUp(t *testing.T, app *fiber.App, username, email string) string {
	t.Helper()

	resp, body := doJSON(t, app, fiber.MethodPost, "/v1/users/sign-up", "", fiber.Map{
		"username": username,
		"email":    email,
		"password": "secret",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	token, _ := body["auth_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestSignUpEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	t.Run("returns the account with its token", func(t *testing.T) {
		resp, body := doJSON(t, app, fiber.MethodPost, "/v1/users/sign-up", "", fiber.Map{
			"username": "alice",
			"email":    "alice@example.com",
			"password": "secret",
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "alice", body["username"])
		assert.Equal(t, "alice@example.com", body["email"])
		assert.NotEmpty(t, body["auth_token"])
	})

	t.Run("validation failures are 400 with the message", func(t *testing.T) {
		resp, body := doJSON(t, app, fiber.MethodPost, "/v1/users/sign-up", "", fiber.Map{
			"username": "ab",
			"email":    "ab@example.com",
			"password": "secret",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Your username must have at least 3 characters. Try again.", body["message"])
	})
}

func TestSignInEndpoint(t *testing.T) {
	app, _ := newTestApp(t)
	signUp(t, app, "alice", "alice@example.com")

	t.Run("success", func(t *testing.T) {
		resp, body := doJSON(t, app, fiber.MethodPost, "/v1/users/sign-in", "", fiber.Map{
			"email":    "alice@example.com",
			"password": "secret",
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, body["auth_token"])
	})

	t.Run("unknown email renders 400, not 404", func(t *testing.T) {
		resp, body := doJSON(t, app, fiber.MethodPost, "/v1/users/sign-in", "", fiber.Map{
			"email":    "nobody@example.com",
			"password": "secret",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "A user with that email address does not exist. Try another one or sign up.", body["message"])
	})
}

func TestPhoneAuthEndpoint(t *testing.T) {
	app, db := newTestApp(t)

	resp, body := doJSON(t, app, fiber.MethodPost, "/v1/users/phone-auth", "", fiber.Map{
		"phone_number": "4157654321",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, body["id"])
	// The start response must not leak the token or the code.
	assert.Empty(t, body["auth_token"])
	assert.Nil(t, body["phone_number_verification_code"])

	// Same number again: existing account, 200.
	resp, _ = doJSON(t, app, fiber.MethodPost, "/v1/users/phone-auth", "", fiber.Map{
		"phone_number": "(415) 765-4321",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Verify with the stored code.
	var user models.User
	require.NoError(t, db.First(&user, "phone_number = ?", "+14157654321").Error)
	require.NotNil(t, user.PhoneVerificationCode)

	resp, body = doJSON(t, app, fiber.MethodPost, "/v1/users/"+user.ID.String()+"/phone-verification", "", fiber.Map{
		"phone_number_verification_code": *user.PhoneVerificationCode,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["auth_token"])
	assert.NotEqual(t, user.AuthToken, body["auth_token"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := doJSON(t, app, fiber.MethodPost, "/v1/clips", "", fiber.Map{
		"video_url": "https://cdn.example.com/v.mp4",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Unauthorized", body["message"])
}

func TestClipLifecycleEndpoints(t *testing.T) {
	app, _ := newTestApp(t)
	ownerToken := signUp(t, app, "alice", "alice@example.com")
	otherToken := signUp(t, app, "bob", "bob@example.com")

	resp, body := doJSON(t, app, fiber.MethodPost, "/v1/clips", ownerToken, fiber.Map{
		"video_url": "https://cdn.example.com/v.mp4",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	clipID, _ := body["id"].(string)
	require.NotEmpty(t, clipID)

	resp, _ = doJSON(t, app, fiber.MethodPost, "/v1/clips/"+clipID+"/likes", otherToken, nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = doJSON(t, app, fiber.MethodDelete, "/v1/clips/"+clipID, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, app, fiber.MethodDelete, "/v1/clips/"+clipID, ownerToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, app, fiber.MethodDelete, "/v1/clips/"+uuid.NewString(), ownerToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFollowEndpoints(t *testing.T) {
	app, db := newTestApp(t)
	aliceToken := signUp(t, app, "alice", "alice@example.com")

	signUp(t, app, "bob", "bob@example.com")
	var bob models.User
	require.NoError(t, db.First(&bob, "username = ?", "bob").Error)

	resp, _ := doJSON(t, app, fiber.MethodPost, "/v1/users/"+bob.ID.String()+"/follow", aliceToken, nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// Profile reflects the relationship.
	resp, body := doJSON(t, app, fiber.MethodGet, "/v1/users/"+bob.ID.String(), aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["following"])
	assert.Equal(t, false, body["follower"])

	resp, _ = doJSON(t, app, fiber.MethodDelete, "/v1/users/"+bob.ID.String()+"/follow", aliceToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Following a missing account is 404.
	resp, _ = doJSON(t, app, fiber.MethodPost, "/v1/users/"+uuid.NewString()+"/follow", aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestShowMe(t *testing.T) {
	app, _ := newTestApp(t)
	token := signUp(t, app, "alice", "alice@example.com")

	resp, body := doJSON(t, app, fiber.MethodGet, "/v1/users/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice", body["username"])
	assert.Equal(t, "alice@example.com", body["email"])
	// A profile response never carries the token.
	assert.Empty(t, body["auth_token"])

	resp, _ = doJSON(t, app, fiber.MethodGet, "/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUserSearchEndpoints(t *testing.T) {
	app, db := newTestApp(t)
	signUp(t, app, "alice", "alice@example.com")
	bobToken := signUp(t, app, "bob", "bob@example.com")

	var alice models.User
	require.NoError(t, db.First(&alice, "username = ?", "alice").Error)
	require.NoError(t, db.Model(&alice).Update("phone_number", "+14157654321").Error)

	decode := func(resp *http.Response) []map[string]interface{} {
		var page []map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
		return page
	}

	t.Run("by username, case-insensitive, anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/users?username=ALICE", nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		page := decode(resp)
		require.Len(t, page, 1)
		assert.Equal(t, "alice", page[0]["username"])
		// Anonymous results carry neither contact fields nor flags.
		assert.NotContains(t, page[0], "email")
		assert.NotContains(t, page[0], "follower")
	})

	t.Run("by phone numbers with follow flags", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/users?phone_number=415-765-4321,junk", nil)
		req.Header.Set("Authorization", "Bearer "+bobToken)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		page := decode(resp)
		require.Len(t, page, 1)
		assert.Equal(t, alice.ID.String(), page[0]["id"])
		assert.Equal(t, false, page[0]["following"])
		assert.Equal(t, false, page[0]["follower"])
	})

	t.Run("phone-search endpoint requires a token", func(t *testing.T) {
		resp, _ := doJSON(t, app, fiber.MethodPost, "/v1/users/phone-search", "", fiber.Map{
			"phone_numbers": []string{"4157654321"},
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		resp, _ = doJSON(t, app, fiber.MethodPost, "/v1/users/phone-search", bobToken, fiber.Map{
			"phone_numbers": []string{"4157654321"},
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestUserStreamEndpoint(t *testing.T) {
	app, db := newTestApp(t)
	token := signUp(t, app, "alice", "alice@example.com")

	var alice models.User
	require.NoError(t, db.First(&alice, "username = ?", "alice").Error)
	clip := models.Clip{ID: uuid.New(), UserID: alice.ID, VideoURL: "https://cdn.example.com/v.mp4"}
	require.NoError(t, db.Create(&clip).Error)

	t.Run("serves the target's clips", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/users/"+alice.ID.String()+"/clips/stream", nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var page []map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
		require.Len(t, page, 1)
		assert.Equal(t, clip.ID.String(), page[0]["id"])
	})

	t.Run("unknown target is 404, not an empty page", func(t *testing.T) {
		resp, body := doJSON(t, app, fiber.MethodGet, "/v1/users/"+uuid.NewString()+"/clips/stream", token, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "User not found", body["message"])
	})
}

func TestStreamEndpointAnonymous(t *testing.T) {
	app, db := newTestApp(t)

	// Seed the default account with one clip.
	email := "onboarding@snowball.is"
	username := "onboarding"
	account := models.User{ID: uuid.New(), Username: &username, Email: &email, AuthToken: "seed-token"}
	require.NoError(t, db.Create(&account).Error)
	clip := models.Clip{ID: uuid.New(), UserID: account.ID, VideoURL: "https://cdn.example.com/v.mp4"}
	require.NoError(t, db.Create(&clip).Error)

	req := httptest.NewRequest(http.MethodGet, "/v1/clips/stream", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	require.Len(t, page, 1)
	assert.Equal(t, clip.ID.String(), page[0]["id"])
	assert.Equal(t, false, page[0]["liked"])
}
