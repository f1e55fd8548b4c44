package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.mau.fi/whatsmeow/store"
	"go.mau.fi/whatsmeow/store/sqlstore"
	waLog "go.mau.fi/whatsmeow/util/log"

	"github.com/gdbrns/go-whatsapp-pairing-bot/pkg/env"
	"github.com/gdbrns/go-whatsapp-pairing-bot/pkg/log"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPgx      = "pgx"
	DriverPostgres = "postgres"

	defaultAuthDir = "auth_info"
	sqliteFileName = "whatsapp.db"
)

// DatastoreConfig selects the whatsmeow credential store. An empty Driver
// means a SQLite file inside AuthDir.
type DatastoreConfig struct {
	Driver  string
	URI     string
	AuthDir string
}

// DatastoreConfigFromEnv reads WHATSAPP_DATASTORE_TYPE, WHATSAPP_DATASTORE_URI
// and AUTH_DIR.
func DatastoreConfigFromEnv() DatastoreConfig {
	return DatastoreConfig{
		Driver:  env.GetEnvStringOrDefault("WHATSAPP_DATASTORE_TYPE", DriverSQLite),
		URI:     env.GetEnvStringOrDefault("WHATSAPP_DATASTORE_URI", ""),
		AuthDir: env.GetEnvStringOrDefault("AUTH_DIR", defaultAuthDir),
	}
}

// AuthStore persists the single paired device in a whatsmeow sqlstore.
type AuthStore struct {
	container *sqlstore.Container
}

// OpenAuthStore opens (and migrates) the configured datastore. The database
// driver must already be registered by the caller.
func OpenAuthStore(ctx context.Context, cfg DatastoreConfig) (*AuthStore, error) {
	driver := normalizeDatastoreDriver(cfg.Driver)

	dsn, err := datastoreDSN(driver, cfg)
	if err != nil {
		return nil, err
	}

	log.Session().WithField("driver", driver).Info("Initializing WhatsApp datastore")

	container, err := sqlstore.New(ctx, driver, dsn, waLog.Noop)
	if err != nil {
		return nil, fmt.Errorf("open %s datastore: %w", driver, err)
	}

	if err := container.Upgrade(ctx); err != nil {
		return nil, fmt.Errorf("upgrade datastore schema: %w", err)
	}

	return &AuthStore{container: container}, nil
}

// Load returns the stored device, or a fresh unpaired one on first run.
func (s *AuthStore) Load(ctx context.Context) (*store.Device, error) {
	device, err := s.container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("load device: %w", err)
	}
	return device, nil
}

// Save persists device credentials. Unpaired devices have nothing to save
// yet and are skipped.
func (s *AuthStore) Save(ctx context.Context, device *store.Device) error {
	if device == nil || device.ID == nil {
		return nil
	}
	if err := s.container.PutDevice(ctx, device); err != nil {
		return fmt.Errorf("save device %s: %w", MaskJID(device.ID.String()), err)
	}
	return nil
}

func (s *AuthStore) Close() error {
	return s.container.Close()
}

// normalizeDatastoreDriver maps user-facing names onto registered
// database/sql drivers: "postgresql" goes through pgx, "pq" through lib/pq.
func normalizeDatastoreDriver(driver string) string {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite", "sqlite3", "file":
		return DriverSQLite
	case "postgresql", "pgx":
		return DriverPgx
	case "postgres", "pq", "libpq":
		return DriverPostgres
	default:
		return strings.ToLower(strings.TrimSpace(driver))
	}
}

func datastoreDSN(driver string, cfg DatastoreConfig) (string, error) {
	switch driver {
	case DriverSQLite:
		if cfg.URI != "" {
			return cfg.URI, nil
		}
		dir := cfg.AuthDir
		if dir == "" {
			dir = defaultAuthDir
		}
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return "", fmt.Errorf("create auth dir %s: %w", dir, err)
		}
		return sqliteDSN(filepath.Join(dir, sqliteFileName)), nil
	case DriverPgx, DriverPostgres:
		if cfg.URI == "" {
			return "", errors.New("WHATSAPP_DATASTORE_URI is required for " + driver)
		}
		return normalizeDatastoreDSN(driver, cfg.URI), nil
	default:
		return "", fmt.Errorf("unsupported datastore driver %q", driver)
	}
}

func sqliteDSN(path string) string {
	return "file:" + path + "?_foreign_keys=on&_busy_timeout=5000"
}

// normalizeDatastoreDSN disables pgx statement caching, which breaks behind
// transaction-pooling proxies such as PgBouncer.
func normalizeDatastoreDSN(driver string, dsn string) string {
	if driver != DriverPgx {
		return dsn
	}
	appendParam := func(current string, key string, value string) string {
		if strings.Contains(current, key+"=") {
			return current
		}
		switch {
		case !strings.Contains(current, "?"):
			return current + "?" + key + "=" + value
		case strings.HasSuffix(current, "?"), strings.HasSuffix(current, "&"):
			return current + key + "=" + value
		default:
			return current + "&" + key + "=" + value
		}
	}
	dsn = appendParam(dsn, "statement_cache_capacity", "0")
	dsn = appendParam(dsn, "default_query_exec_mode", "simple_protocol")
	return dsn
}
