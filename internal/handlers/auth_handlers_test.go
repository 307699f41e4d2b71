package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fathima-sithara/user-auth-service/internal/apperr"
	"github.com/fathima-sithara/user-auth-service/internal/config"
	"github.com/fathima-sithara/user-auth-service/internal/handlers"
	"github.com/fathima-sithara/user-auth-service/internal/middleware"
	"github.com/fathima-sithara/user-auth-service/internal/models"
	"github.com/fathima-sithara/user-auth-service/internal/server"
	"github.com/fathima-sithara/user-auth-service/internal/services"
	"github.com/fathima-sithara/user-auth-service/internal/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

// fakeAccountService records calls and returns canned results.
type fakeAccountService struct {
	registerIn  services.RegisterInput
	registerErr error

	verifyEmail string
	verifyOTP   int
	verifyUser  *models.User
	verifyErr   error

	loginUser *models.User
	loginErr  error

	getUser    *models.User
	getUserErr error

	forgotErr error

	resetToken string
	resetUser  *models.User
	resetErr   error
}

func (f *fakeAccountService) Register(_ context.Context, in services.RegisterInput) error {
	f.registerIn = in
	return f.registerErr
}

func (f *fakeAccountService) VerifyOTP(_ context.Context, email string, otp int) (*models.User, error) {
	f.verifyEmail = email
	f.verifyOTP = otp
	return f.verifyUser, f.verifyErr
}

func (f *fakeAccountService) Login(_ context.Context, _, _ string) (*models.User, error) {
	return f.loginUser, f.loginErr
}

func (f *fakeAccountService) GetUserByID(_ context.Context, _ string) (*models.User, error) {
	return f.getUser, f.getUserErr
}

func (f *fakeAccountService) ForgotPassword(_ context.Context, _ string) error {
	return f.forgotErr
}

func (f *fakeAccountService) ResetPassword(_ context.Context, token, _, _ string) (*models.User, error) {
	f.resetToken = token
	return f.resetUser, f.resetErr
}

func newTestApp(svc services.AccountService) *fiber.App {
	cfg := &config.Config{}
	cfg.App.FrontendURL = "http://localhost:5173"
	h := handlers.NewHandler(svc, testSecret, time.Hour, 24*time.Hour)
	authRequired := middleware.Authenticated(svc, testSecret)
	return server.New(cfg, h, authRequired, zap.NewNop())
}

func testUser() *models.User {
	return &models.User{
		ID:              primitive.NewObjectID(),
		Name:            "Alice",
		Email:           "a@x.com",
		AccountVerified: true,
		CreatedAt:       time.Now().UTC(),
	}
}

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Token   string          `json:"token"`
	User    json.RawMessage `json:"user"`
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any, cookies ...*http.Cookie) (*http.Response, apiResponse) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out apiResponse
	require.NoError(t, json.Unmarshal(raw, &out), "body: %s", raw)
	return resp, out
}

func TestRegister_OK(t *testing.T) {
	svc := &fakeAccountService{}
	app := newTestApp(svc)

	resp, out := doJSON(t, app, http.MethodPost, "/api/v1/user/register", fiber.Map{
		"name":               "Alice",
		"email":              "A@X.com",
		"password":           "password123",
		"verificationMethod": "email",
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, out.Success)
	assert.Contains(t, out.Message, "Alice")
	assert.Equal(t, "a@x.com", svc.registerIn.Email) // normalized
}

func TestRegister_MissingFields(t *testing.T) {
	app := newTestApp(&fakeAccountService{})

	resp, out := doJSON(t, app, http.MethodPost, "/api/v1/user/register", fiber.Map{
		"email": "a@x.com",
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, out.Success)
	assert.Equal(t, "All fields are required", out.Message)
}

func TestRegister_ServiceErrorShape(t *testing.T) {
	svc := &fakeAccountService{registerErr: apperr.Conflict("Email is already registered")}
	app := newTestApp(svc)

	resp, out := doJSON(t, app, http.MethodPost, "/api/v1/user/register", fiber.Map{
		"name":               "Alice",
		"email":              "a@x.com",
		"password":           "password123",
		"verificationMethod": "email",
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, out.Success)
	assert.Equal(t, "Email is already registered", out.Message)
}

func TestVerifyOTP_CoercesNumberAndString(t *testing.T) {
	svc := &fakeAccountService{verifyUser: testUser()}
	app := newTestApp(svc)

	resp, out := doJSON(t, app, http.MethodPost, "/api/v1/user/otp-verification", fiber.Map{
		"email": "a@x.com",
		"otp":   54321,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 54321, svc.verifyOTP)
	assert.NotEmpty(t, out.Token)
	require.NotEmpty(t, resp.Cookies())
	assert.Equal(t, "token", resp.Cookies()[0].Name)
	assert.True(t, resp.Cookies()[0].HttpOnly)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/user/otp-verification", fiber.Map{
		"email": "a@x.com",
		"otp":   "12345",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 12345, svc.verifyOTP)
}

func TestVerifyOTP_NonNumericOTP(t *testing.T) {
	app := newTestApp(&fakeAccountService{})

	resp, out := doJSON(t, app, http.MethodPost, "/api/v1/user/otp-verification", fiber.Map{
		"email": "a@x.com",
		"otp":   "abcde",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "OTP must be a number", out.Message)
}

func TestLogin_SetsSessionCookie(t *testing.T) {
	svc := &fakeAccountService{loginUser: testUser()}
	app := newTestApp(svc)

	resp, out := doJSON(t, app, http.MethodPost, "/api/v1/user/login", fiber.Map{
		"email":    "a@x.com",
		"password": "password123",
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, out.Success)
	assert.NotEmpty(t, out.Token)

	// the token round-trips as a valid session token
	userID, err := utils.ParseSessionToken(out.Token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, svc.loginUser.ID.Hex(), userID)

	// user JSON never exposes sensitive fields
	assert.NotContains(t, string(out.User), "password")
	assert.NotContains(t, string(out.User), "verification_code")
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := &fakeAccountService{loginErr: apperr.Auth("Invalid email or password")}
	app := newTestApp(svc)

	resp, out := doJSON(t, app, http.MethodPost, "/api/v1/user/login", fiber.Map{
		"email":    "a@x.com",
		"password": "nope1234",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid email or password", out.Message)
}

func TestMe_RequiresSession(t *testing.T) {
	app := newTestApp(&fakeAccountService{})

	resp, out := doJSON(t, app, http.MethodGet, "/api/v1/user/me", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "User is not authenticated", out.Message)
}

func TestMe_InvalidToken(t *testing.T) {
	app := newTestApp(&fakeAccountService{})

	resp, out := doJSON(t, app, http.MethodGet, "/api/v1/user/me", nil,
		&http.Cookie{Name: "token", Value: "garbage"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Json Web Token is invalid, try again", out.Message)
}

func TestMe_ReturnsCurrentUser(t *testing.T) {
	user := testUser()
	svc := &fakeAccountService{getUser: user}
	app := newTestApp(svc)

	token, err := utils.GenerateSessionToken(user.ID.Hex(), testSecret, time.Hour)
	require.NoError(t, err)

	resp, out := doJSON(t, app, http.MethodGet, "/api/v1/user/me", nil,
		&http.Cookie{Name: "token", Value: token})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, out.Success)
	assert.Contains(t, string(out.User), user.Email)
}

func TestLogout_ClearsCookie(t *testing.T) {
	user := testUser()
	svc := &fakeAccountService{getUser: user}
	app := newTestApp(svc)

	token, err := utils.GenerateSessionToken(user.ID.Hex(), testSecret, time.Hour)
	require.NoError(t, err)

	resp, out := doJSON(t, app, http.MethodGet, "/api/v1/user/logout", nil,
		&http.Cookie{Name: "token", Value: token})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, out.Success)

	require.NotEmpty(t, resp.Cookies())
	cleared := resp.Cookies()[0]
	assert.Equal(t, "token", cleared.Name)
	assert.Empty(t, cleared.Value)
	assert.False(t, cleared.Expires.After(time.Now()))
}

func TestResetPassword_TokenFromPath(t *testing.T) {
	svc := &fakeAccountService{resetUser: testUser()}
	app := newTestApp(svc)

	resp, out := doJSON(t, app, http.MethodPut, "/api/v1/user/password/reset/abc123def", fiber.Map{
		"password":        "newpass123",
		"confirmPassword": "newpass123",
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, out.Success)
	assert.Equal(t, "abc123def", svc.resetToken)
	assert.NotEmpty(t, out.Token)
}

func TestUnknownError_GenericResponse(t *testing.T) {
	svc := &fakeAccountService{forgotErr: errors.New("store exploded: dsn=mongodb://admin:hunter2@db")}
	app := newTestApp(svc)

	resp, out := doJSON(t, app, http.MethodPost, "/api/v1/user/password/forgot", fiber.Map{
		"email": "a@x.com",
	})

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.False(t, out.Success)
	assert.Equal(t, "Internal Server Error", out.Message)
	assert.False(t, strings.Contains(out.Message, "hunter2"))
}
