package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.mau.fi/whatsmeow/store"
	"go.mau.fi/whatsmeow/types/events"

	"github.com/gdbrns/go-whatsapp-pairing-bot/pkg/log"
	"github.com/gdbrns/go-whatsapp-pairing-bot/pkg/validation"
	"github.com/gdbrns/go-whatsapp-pairing-bot/pkg/whatsapp"
)

const (
	DefaultReconnectDelay = 5 * time.Second
	DefaultReadyAttempts  = 30
	DefaultReadyInterval  = time.Second

	eventCallTimeout = 30 * time.Second
)

var (
	ErrNotReady = errors.New("connection not ready")
	ErrShutdown = errors.New("session manager is shut down")
)

// Engine builds protocol connections.
type Engine interface {
	RefreshVersion(ctx context.Context) error
	NewConn(device *store.Device, handler func(any)) whatsapp.Conn
}

// AuthStore loads and persists device credentials.
type AuthStore interface {
	Load(ctx context.Context) (*store.Device, error)
	Save(ctx context.Context, device *store.Device) error
}

// MessageHandler receives inbound messages of the live session.
type MessageHandler func(ctx context.Context, conn whatsapp.Conn, evt *events.Message)

// Session is one engine connection together with the device it runs on.
type Session struct {
	Conn      whatsapp.Conn
	Device    *store.Device
	CreatedAt time.Time
}

// Manager owns the process-wide WhatsApp session. Its mutex guards the
// session pointer, the connecting flag and the reconnect timer, and is
// never held across engine calls.
type Manager struct {
	engine    Engine
	auth      AuthStore
	clock     clockwork.Clock
	onMessage MessageHandler

	reconnectDelay time.Duration
	readyAttempts  int
	readyInterval  time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	session    *Session
	connecting bool
	state      State
	qrCode     string
	lastClose  int
	reconnect  clockwork.Timer
	shutdown   bool
}

type Option func(*Manager)

func WithClock(clock clockwork.Clock) Option {
	return func(m *Manager) { m.clock = clock }
}

func WithMessageHandler(handler MessageHandler) Option {
	return func(m *Manager) { m.onMessage = handler }
}

func WithReconnectDelay(delay time.Duration) Option {
	return func(m *Manager) {
		if delay > 0 {
			m.reconnectDelay = delay
		}
	}
}

// WithReadiness bounds WaitReady to attempts polls spaced by interval.
func WithReadiness(attempts int, interval time.Duration) Option {
	return func(m *Manager) {
		if attempts > 0 {
			m.readyAttempts = attempts
		}
		if interval > 0 {
			m.readyInterval = interval
		}
	}
}

func NewManager(engine Engine, auth AuthStore, opts ...Option) *Manager {
	m := &Manager{
		engine:         engine,
		auth:           auth,
		clock:          clockwork.NewRealClock(),
		reconnectDelay: DefaultReconnectDelay,
		readyAttempts:  DefaultReadyAttempts,
		readyInterval:  DefaultReadyInterval,
		state:          StateDisconnected,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.ctx, m.cancel = context.WithCancel(context.Background())
	return m
}

// EnsureSession returns the live session, creating it when none exists
// and none is being created. A caller that finds creation in progress gets
// the current handle, which may be nil, without starting a second
// connection. Creation errors are returned and never retried here.
func (m *Manager) EnsureSession(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	if m.shutdown {
		m.mu.Unlock()
		return nil, ErrShutdown
	}
	if m.session != nil || m.connecting {
		sess := m.session
		m.mu.Unlock()
		return sess, nil
	}
	m.connecting = true
	m.state = StateConnecting
	m.mu.Unlock()

	sess, err := m.connect(ctx)
	if err != nil {
		m.mu.Lock()
		if sess == nil || m.session == sess {
			m.session = nil
			m.connecting = false
			m.state = StateDisconnected
		}
		m.mu.Unlock()

		log.Session().WithError(err).Error("Erreur d'initialisation de la connexion WhatsApp")
		return nil, err
	}

	return sess, nil
}

func (m *Manager) connect(ctx context.Context) (*Session, error) {
	device, err := m.auth.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load auth state: %w", err)
	}

	if err := m.engine.RefreshVersion(ctx); err != nil {
		log.Session().WithError(err).Warn("Could not fetch latest WhatsApp Web version, using built-in version")
	}

	sess := &Session{Device: device, CreatedAt: m.clock.Now()}
	sess.Conn = m.engine.NewConn(device, m.eventHandler(sess))

	// Registered before Connect so events raised during the handshake
	// are recognised as belonging to the current session.
	m.mu.Lock()
	m.session = sess
	m.mu.Unlock()

	log.Session().Info("🔄 Initialisation de la connexion WhatsApp...")

	if err := sess.Conn.Connect(); err != nil {
		return sess, fmt.Errorf("connect: %w", err)
	}

	return sess, nil
}

// WaitReady polls until a session exists and has finished connecting.
func (m *Manager) WaitReady(ctx context.Context) error {
	for attempt := 0; attempt < m.readyAttempts; attempt++ {
		if m.ready() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.clock.After(m.readyInterval):
		}
	}
	if m.ready() {
		return nil
	}
	return ErrNotReady
}

func (m *Manager) ready() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session != nil && !m.connecting
}

// RequestPairingCode asks the engine for a phone pairing code for number
// and returns it upper-cased.
func (m *Manager) RequestPairingCode(ctx context.Context, number string) (string, error) {
	number = validation.CleanPhone(number)

	if _, err := m.EnsureSession(ctx); err != nil {
		return "", err
	}
	if err := m.WaitReady(ctx); err != nil {
		return "", err
	}

	sess := m.Current()
	if sess == nil {
		return "", ErrNotReady
	}

	code, err := sess.Conn.PairPhone(ctx, number)
	if err != nil {
		return "", fmt.Errorf("request pairing code: %w", err)
	}

	log.Session().WithField("number", whatsapp.MaskJID(number)).Info("Code de jumelage généré")
	return strings.ToUpper(code), nil
}

func (m *Manager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Connected reports whether a session handle currently exists.
func (m *Manager) Connected() bool {
	return m.Current() != nil
}

// QRCode returns the pending pairing QR payload, if any.
func (m *Manager) QRCode() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.qrCode
}

// Logout unlinks the current session from the account. Without a session
// it does nothing.
func (m *Manager) Logout(ctx context.Context) error {
	sess := m.Current()
	if sess == nil {
		return nil
	}

	if err := sess.Conn.Logout(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	m.mu.Lock()
	if m.session == sess {
		m.session = nil
		m.connecting = false
		m.qrCode = ""
		m.state = StateLoggedOut
		m.lastClose = StatusLoggedOut
	}
	m.stopReconnectLocked()
	m.mu.Unlock()

	log.Session().Info("Session WhatsApp déconnectée (logout)")
	return nil
}

// Reconnect drops the current connection and builds a new one immediately.
func (m *Manager) Reconnect(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	old := m.session
	m.session = nil
	m.connecting = false
	m.qrCode = ""
	m.state = StateDisconnected
	m.stopReconnectLocked()
	m.mu.Unlock()

	if old != nil {
		old.Conn.Disconnect()
	}

	return m.EnsureSession(ctx)
}

// Shutdown cancels a pending reconnect and closes the socket without
// logging out. The manager refuses new sessions afterwards.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	m.shutdown = true
	old := m.session
	m.session = nil
	m.connecting = false
	m.state = StateDisconnected
	m.stopReconnectLocked()
	m.mu.Unlock()

	m.cancel()
	if old != nil {
		old.Conn.Disconnect()
	}
}

func (m *Manager) stopReconnectLocked() {
	if m.reconnect != nil {
		m.reconnect.Stop()
		m.reconnect = nil
	}
}
