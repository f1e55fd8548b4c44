package whatsapp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mau.fi/whatsmeow/store"
)

func resetVersionState(t *testing.T) {
	t.Helper()
	original := store.GetWAVersion()
	previousFetch := fetchLatestVersion
	t.Cleanup(func() {
		store.SetWAVersion(original)
		fetchLatestVersion = previousFetch
		waVersionLastRefreshedAt = nil
		waVersionLastError = ""
	})
	waVersionLastRefreshedAt = nil
	waVersionLastError = ""
}

func TestRefreshWAVersionAppliesLatest(t *testing.T) {
	resetVersionState(t)
	t.Setenv("WHATSAPP_WAVERSION_REFRESH_MIN_INTERVAL", "1h")

	fetchLatestVersion = func(ctx context.Context) (*store.WAVersionContainer, error) {
		return &store.WAVersionContainer{2, 3000, 1012345678}, nil
	}

	status, refreshed, err := RefreshWAVersion(context.Background(), false)
	require.NoError(t, err)
	assert.True(t, refreshed)
	assert.Equal(t, "2.3000.1012345678", status.CurrentVersion)
	assert.NotNil(t, status.LastRefreshed)

	// Within the minimum interval nothing is fetched.
	fetchLatestVersion = func(ctx context.Context) (*store.WAVersionContainer, error) {
		t.Fatal("unexpected fetch")
		return nil, nil
	}
	_, refreshed, err = RefreshWAVersion(context.Background(), false)
	require.NoError(t, err)
	assert.False(t, refreshed)
}

func TestRefreshWAVersionKeepsVersionOnError(t *testing.T) {
	resetVersionState(t)
	before := store.GetWAVersion()

	fetchLatestVersion = func(ctx context.Context) (*store.WAVersionContainer, error) {
		return nil, errors.New("network down")
	}

	status, refreshed, err := RefreshWAVersion(context.Background(), true)
	assert.EqualError(t, err, "network down")
	assert.True(t, refreshed)
	assert.Equal(t, before.String(), status.CurrentVersion)
	assert.Equal(t, "network down", status.LastError)
}

func TestEncodeQRDataURI(t *testing.T) {
	uri, err := EncodeQRDataURI("2@abc,def,ghi")
	require.NoError(t, err)
	assert.Contains(t, uri, "data:image/png;base64,")

	_, err = EncodeQRDataURI("")
	assert.ErrorIs(t, err, ErrEmptyQRCode)
}
