package qr

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gdbrns/go-whatsapp-pairing-bot/pkg/router"
)

type staticSource string

func (s staticSource) QRCode() string { return string(s) }

func TestQRCode(t *testing.T) {
	app := fiber.New()
	app.Get("/qr", QRCode(staticSource("2@Xy9ab,cd,ef")))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/qr", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body router.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	data, ok := body.Data.(map[string]interface{})
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(data["qr_code"].(string), "data:image/png;base64,"))
}

func TestQRCodeNotPending(t *testing.T) {
	app := fiber.New()
	app.Get("/qr", QRCode(staticSource("")))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/qr", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
