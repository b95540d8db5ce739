package chat_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/PaulBabatuyi/discussions-gRPC/internal/auth"
	"github.com/PaulBabatuyi/discussions-gRPC/internal/chat"
	"github.com/PaulBabatuyi/discussions-gRPC/internal/data"
	"github.com/PaulBabatuyi/discussions-gRPC/internal/embedded"
	"github.com/stretchr/testify/require"
)

// stepClock advances one second every time it is read.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func newStepClock() *stepClock {
	return &stepClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type env struct {
	db        *embedded.DB
	directory *chat.Directory
	ledger    *chat.Ledger
	messages  *chat.Messages
	feed      *chat.Feed
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := embedded.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	hasher, err := auth.NewPasswordHasher("test-salt")
	require.NoError(t, err)

	clock := newStepClock()
	opt := chat.WithClock(clock.Now)
	return &env{
		db:        db,
		directory: chat.NewDirectory(db.Users(), hasher, opt),
		ledger:    chat.NewLedger(db.Users(), db.Discussions(), opt),
		messages:  chat.NewMessages(db.Users(), db.Discussions(), db.Messages(), opt),
		feed:      chat.NewFeed(db.Users(), db.Discussions(), opt),
	}
}

func (e *env) register(t *testing.T, username string) *data.User {
	t.Helper()
	u, err := e.directory.Register(context.Background(), username, "password-"+username)
	require.NoError(t, err)
	return u
}
