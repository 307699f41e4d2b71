package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fathima-sithara/user-auth-service/internal/apperr"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func errorApp(err error) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.NewNop())})
	app.Get("/boom", func(c *fiber.Ctx) error { return err })
	return app
}

func request(t *testing.T, app *fiber.App) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil), -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp.StatusCode, body
}

func TestErrorHandler_AppError(t *testing.T) {
	status, body := request(t, errorApp(apperr.RateLimit("You exceeded the maximum number of attempts (3). Please try again after an hour")))

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["message"], "maximum number of attempts")
}

func TestErrorHandler_DuplicateKey(t *testing.T) {
	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
	status, body := request(t, errorApp(dup))

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Duplicate field value entered", body["message"])
}

func TestErrorHandler_UnknownError(t *testing.T) {
	status, body := request(t, errorApp(errors.New("stack trace with secrets")))

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Internal Server Error", body["message"])
}

func TestErrorHandler_FiberError(t *testing.T) {
	status, body := request(t, errorApp(fiber.ErrMethodNotAllowed))

	assert.Equal(t, http.StatusMethodNotAllowed, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Method Not Allowed", body["message"])
}
