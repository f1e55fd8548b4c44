package session

import (
	"context"
	"errors"
	"sync"

	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/store"
	"go.mau.fi/whatsmeow/types"

	"github.com/gdbrns/go-whatsapp-pairing-bot/pkg/whatsapp"
)

type fakeConn struct {
	mu         sync.Mutex
	handler    func(any)
	onConnect  func(c *fakeConn) error
	connects   int
	disconnect int
	logouts    int
	online     int
	paired     []string
	pairCode   string
	pairErr    error
}

func (c *fakeConn) emit(evt any) {
	c.handler(evt)
}

func (c *fakeConn) Connect() error {
	c.mu.Lock()
	c.connects++
	hook := c.onConnect
	c.mu.Unlock()
	if hook != nil {
		return hook(c)
	}
	return nil
}

func (c *fakeConn) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disconnect++
}

func (c *fakeConn) Logout(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logouts++
	return nil
}

func (c *fakeConn) IsLoggedIn() bool { return false }

func (c *fakeConn) PairPhone(ctx context.Context, phone string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paired = append(c.paired, phone)
	return c.pairCode, c.pairErr
}

func (c *fakeConn) MarkOnline(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.online++
	return nil
}

func (c *fakeConn) SendText(ctx context.Context, chat types.JID, text string) error { return nil }

func (c *fakeConn) GroupInfo(ctx context.Context, group types.JID) (*types.GroupInfo, error) {
	return nil, errors.New("not implemented")
}

func (c *fakeConn) UpdateParticipants(ctx context.Context, group types.JID, participants []types.JID, action whatsmeow.ParticipantChange) error {
	return nil
}

func (c *fakeConn) LeaveGroup(ctx context.Context, group types.JID) error { return nil }

func (c *fakeConn) OwnJID() types.JID { return types.NewJID("33600000000", types.DefaultUserServer) }

func (c *fakeConn) OwnLID() types.JID { return types.EmptyJID }

func (c *fakeConn) counts() (online, logouts int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.online, c.logouts
}

func (c *fakeConn) pairCalls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.paired...)
}

type fakeEngine struct {
	mu        sync.Mutex
	conns     []*fakeConn
	versionFn func(ctx context.Context) error
	newConn   func() *fakeConn
}

func (e *fakeEngine) RefreshVersion(ctx context.Context) error {
	if e.versionFn != nil {
		return e.versionFn(ctx)
	}
	return nil
}

func (e *fakeEngine) NewConn(device *store.Device, handler func(any)) whatsapp.Conn {
	conn := &fakeConn{}
	if e.newConn != nil {
		conn = e.newConn()
	}
	conn.handler = handler

	e.mu.Lock()
	e.conns = append(e.conns, conn)
	e.mu.Unlock()
	return conn
}

func (e *fakeEngine) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.conns)
}

func (e *fakeEngine) last() *fakeConn {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.conns) == 0 {
		return nil
	}
	return e.conns[len(e.conns)-1]
}

type fakeAuth struct {
	mu      sync.Mutex
	loadErr error
	loads   int
	saves   int
}

func (a *fakeAuth) Load(ctx context.Context) (*store.Device, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.loads++
	if a.loadErr != nil {
		return nil, a.loadErr
	}
	return &store.Device{}, nil
}

func (a *fakeAuth) Save(ctx context.Context, device *store.Device) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.saves++
	return nil
}

func (a *fakeAuth) saveCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.saves
}
