package pairing

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gdbrns/go-whatsapp-pairing-bot/pkg/router"
)

type fakePairer struct {
	calls []string
	code  string
	err   error
}

func (p *fakePairer) RequestPairingCode(ctx context.Context, number string) (string, error) {
	p.calls = append(p.calls, number)
	return p.code, p.err
}

func get(t *testing.T, p Pairer, target string) (int, map[string]interface{}) {
	t.Helper()
	app := fiber.New(fiber.Config{ErrorHandler: router.HttpErrorHandler})
	app.Get("/code", Code(p))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil), -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	body := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp.StatusCode, body
}

func TestCodeRequiresNumber(t *testing.T) {
	p := &fakePairer{}
	status, body := get(t, p, "/code")

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Numéro de téléphone requis", body["error"])
	assert.Empty(t, p.calls)
}

func TestCodeRejectsBadLength(t *testing.T) {
	for _, number := range []string{"12345", "abc", "1234567890123456"} {
		p := &fakePairer{}
		status, body := get(t, p, "/code?number="+number)

		assert.Equal(t, http.StatusBadRequest, status, number)
		assert.Equal(t, "Numéro invalide (10-15 chiffres requis)", body["error"], number)
		assert.Empty(t, p.calls, number)
	}
}

func TestCodeSuccess(t *testing.T) {
	p := &fakePairer{code: "ABCD-EFGH"}
	status, body := get(t, p, "/code?number=%2B243%20858-704-832")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]interface{}{
		"success": true,
		"code":    "ABCD-EFGH",
		"number":  "243858704832",
	}, body)
	assert.Equal(t, []string{"243858704832"}, p.calls)
}

func TestCodeEngineFailure(t *testing.T) {
	p := &fakePairer{err: errors.New("connection not ready")}
	status, body := get(t, p, "/code?number=243858704832")

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Erreur lors de la génération du code", body["error"])
	assert.Equal(t, "connection not ready", body["details"])
}
