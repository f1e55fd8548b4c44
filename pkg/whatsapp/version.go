package whatsapp

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/store"
	"golang.org/x/sync/singleflight"

	"github.com/gdbrns/go-whatsapp-pairing-bot/pkg/env"
)

const versionFetchTimeout = 15 * time.Second

type WAVersionRefreshStatus struct {
	CurrentVersion string     `json:"current_version"`
	LastRefreshed  *time.Time `json:"last_refreshed,omitempty"`
	LastError      string     `json:"last_error,omitempty"`
}

var (
	waVersionRefreshGroup singleflight.Group

	waVersionRefreshMu       sync.RWMutex
	waVersionLastRefreshedAt *time.Time
	waVersionLastError       string

	// fetchLatestVersion is swapped in tests.
	fetchLatestVersion = func(ctx context.Context) (*store.WAVersionContainer, error) {
		return whatsmeow.GetLatestVersion(ctx, &http.Client{Timeout: versionFetchTimeout})
	}
)

// WAVersionRefreshMinInterval throttles non-forced refreshes
// (WHATSAPP_WAVERSION_REFRESH_MIN_INTERVAL, default 10m).
func WAVersionRefreshMinInterval() time.Duration {
	return env.GetEnvDurationOrDefault("WHATSAPP_WAVERSION_REFRESH_MIN_INTERVAL", 10*time.Minute)
}

func GetWAVersionRefreshStatus() WAVersionRefreshStatus {
	waVersionRefreshMu.RLock()
	defer waVersionRefreshMu.RUnlock()

	status := WAVersionRefreshStatus{
		CurrentVersion: store.GetWAVersion().String(),
		LastError:      waVersionLastError,
	}
	if waVersionLastRefreshedAt != nil {
		t := *waVersionLastRefreshedAt
		status.LastRefreshed = &t
	}
	return status
}

func recordVersionRefresh(err error) {
	waVersionRefreshMu.Lock()
	defer waVersionRefreshMu.Unlock()

	now := time.Now()
	waVersionLastRefreshedAt = &now
	if err != nil {
		waVersionLastError = err.Error()
	} else {
		waVersionLastError = ""
	}
}

// RefreshWAVersion fetches the current WhatsApp Web version and applies it
// process-wide. Concurrent callers share one fetch. Without force, a
// refresh within the minimum interval is skipped and refreshed is false.
func RefreshWAVersion(ctx context.Context, force bool) (status WAVersionRefreshStatus, refreshed bool, err error) {
	if minInterval := WAVersionRefreshMinInterval(); !force && minInterval > 0 {
		waVersionRefreshMu.RLock()
		last := waVersionLastRefreshedAt
		waVersionRefreshMu.RUnlock()
		if last != nil && time.Since(*last) < minInterval {
			return GetWAVersionRefreshStatus(), false, nil
		}
	}

	_, err, _ = waVersionRefreshGroup.Do("refresh", func() (interface{}, error) {
		latest, err := fetchLatestVersion(ctx)
		if err == nil && latest == nil {
			err = errors.New("latest WhatsApp Web version is nil")
		}
		if err != nil {
			recordVersionRefresh(err)
			return nil, err
		}

		store.SetWAVersion(*latest)
		recordVersionRefresh(nil)
		return nil, nil
	})

	return GetWAVersionRefreshStatus(), true, err
}
