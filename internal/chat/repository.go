//go:generate go run go.uber.org/mock/mockgen -source=repository.go -destination=../mocks/mock_repository.go -package=mocks

// Package chat holds the discussion membership and message visibility rules.
//
// The services here never talk to a database directly: they run on the
// repository interfaces below, implemented by internal/data (MongoDB) and
// internal/embedded (BadgerDB). Multi-document operations are not
// transactional; each repository call is its own unit of work.
package chat

import (
	"context"
	"time"

	"github.com/PaulBabatuyi/discussions-gRPC/internal/data"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// UserRepository stores users and their discussion references.
type UserRepository interface {
	CreateUser(ctx context.Context, username, hashedPassword string, now time.Time) (*data.User, error)
	GetUserByID(ctx context.Context, id bson.ObjectID) (*data.User, error)
	GetUserByUsername(ctx context.Context, username string) (*data.User, error)
	GetUsersByIDs(ctx context.Context, ids []bson.ObjectID) ([]*data.User, error)
	ListUsers(ctx context.Context) ([]*data.User, error)
	AddDiscussion(ctx context.Context, userID, discussionID bson.ObjectID, now time.Time) error
	UpdatePassword(ctx context.Context, userID bson.ObjectID, hashedPassword string, now time.Time) error
}

// DiscussionRepository stores discussions and their memberships.
type DiscussionRepository interface {
	CreateDiscussion(ctx context.Context, d *data.Discussion) (*data.Discussion, error)
	GetDiscussionByID(ctx context.Context, id bson.ObjectID) (*data.Discussion, error)
	GetDiscussionsByIDs(ctx context.Context, ids []bson.ObjectID) ([]*data.Discussion, error)
	AddMember(ctx context.Context, discussionID bson.ObjectID, membership data.Membership) error
	MarkSeen(ctx context.Context, discussionID, userID bson.ObjectID, at time.Time) error
	SetLastMessageSentAt(ctx context.Context, discussionID bson.ObjectID, at time.Time) error
}

// MessageRepository stores messages.
type MessageRepository interface {
	CreateMessage(ctx context.Context, msg *data.Message) (*data.Message, error)
	GetMessageByID(ctx context.Context, id bson.ObjectID) (*data.Message, error)
	ListVisibleMessages(ctx context.Context, discussionID bson.ObjectID, skip, n int64) ([]*data.Message, error)
	CountVisibleMessages(ctx context.Context, discussionID bson.ObjectID) (int64, error)
	UpdateContent(ctx context.Context, id bson.ObjectID, content string, at time.Time) error
	HideMessage(ctx context.Context, id bson.ObjectID, at time.Time) error
}

// PasswordHasher derives and checks stored password hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}
