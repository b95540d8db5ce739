package data

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/PaulBabatuyi/discussions-gRPC/internal/db"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func setupDB(t *testing.T) *db.Client {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		t.Skip("MONGODB_URI not set; skipping integration test")
	}

	ctx := context.Background()
	c, err := db.New(ctx, uri, "chat_db_test")
	if err != nil {
		t.Fatalf("db.New failed: %v", err)
	}

	// ensure clean collections in case previous runs left data
	_ = c.UsersCollection().Drop(ctx)
	_ = c.DiscussionsCollection().Drop(ctx)
	_ = c.MessagesCollection().Drop(ctx)

	if err := c.CreateIndexes(ctx); err != nil {
		t.Fatalf("CreateIndexes failed: %v", err)
	}

	t.Cleanup(func() { _ = c.Close(context.Background()) })
	return c
}

func TestUsersCreateAndGet(t *testing.T) {
	c := setupDB(t)
	users := NewUsersStore(c.UsersCollection())

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	username := now.Format("20060102-150405") + "-integration"

	user, err := users.CreateUser(ctx, username, "hashed-password", now)
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if user.Username != username {
		t.Fatalf("expected username %s got %s", username, user.Username)
	}

	// duplicate usernames are rejected by the unique index
	if _, err := users.CreateUser(ctx, username, "other", now); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	// usernames are case-sensitive
	if _, err := users.CreateUser(ctx, username+"X", "other", now); err != nil {
		t.Fatalf("CreateUser with different name failed: %v", err)
	}

	got, err := users.GetUserByUsername(ctx, username)
	if err != nil {
		t.Fatalf("GetUserByUsername failed: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("GetUserByUsername returned wrong user: %s", got.ID.Hex())
	}

	got, err = users.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if got.Username != username {
		t.Fatalf("GetUserByID returned wrong username: %s", got.Username)
	}

	if _, err := users.GetUserByID(ctx, bson.NewObjectID()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUsersAddDiscussionIsASet(t *testing.T) {
	c := setupDB(t)
	users := NewUsersStore(c.UsersCollection())

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	user, err := users.CreateUser(ctx, "linker", "hash", now)
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	d1, d2 := bson.NewObjectID(), bson.NewObjectID()
	for _, id := range []bson.ObjectID{d1, d2, d1} {
		if err := users.AddDiscussion(ctx, user.ID, id, now); err != nil {
			t.Fatalf("AddDiscussion failed: %v", err)
		}
	}

	got, err := users.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if len(got.Discussions) != 2 || got.Discussions[0] != d1 || got.Discussions[1] != d2 {
		t.Fatalf("unexpected discussions: %v", got.Discussions)
	}

	if err := users.AddDiscussion(ctx, bson.NewObjectID(), d1, now); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown user, got %v", err)
	}
}
