package embedded

import (
	"context"
	"encoding/binary"
	"errors"
	"time"

	"github.com/PaulBabatuyi/discussions-gRPC/internal/data"
	"github.com/dgraph-io/badger/v4"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// errStop ends a scan early.
var errStop = errors.New("stop scan")

// MessagesStore performs message operations on badger. Messages of a
// discussion are indexed under dm/<discussion><created_at><id> so a prefix
// scan yields them in creation order.
type MessagesStore struct {
	db *DB
}

func discussionMessagesPrefix(discussionID bson.ObjectID) []byte {
	return idKey(prefixDiscussionMessage, discussionID)
}

func discussionMessageKey(m *data.Message) []byte {
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(m.CreatedAt.UnixMilli()))
	return key(discussionMessagesPrefix(m.Discussion), ts[:], m.ID[:])
}

// CreateMessage stores msg under a new ID.
func (s *MessagesStore) CreateMessage(ctx context.Context, msg *data.Message) (*data.Message, error) {
	msg.ID = bson.NewObjectID()
	err := s.db.update(ctx, func(txn *badger.Txn) error {
		if err := putDoc(txn, idKey(prefixMessage, msg.ID), msg); err != nil {
			return err
		}
		return txn.Set(discussionMessageKey(msg), nil)
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// GetMessageByID finds a message whether shown or hidden.
func (s *MessagesStore) GetMessageByID(ctx context.Context, id bson.ObjectID) (*data.Message, error) {
	var msg data.Message
	err := s.db.view(ctx, func(txn *badger.Txn) error {
		return getDoc(txn, idKey(prefixMessage, id), &msg)
	})
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// eachVisible calls fn with the shown messages of a discussion, oldest first.
func eachVisible(txn *badger.Txn, discussionID bson.ObjectID, fn func(*data.Message) error) error {
	prefix := discussionMessagesPrefix(discussionID)
	err := scan(txn, prefix, false, func(k []byte, _ *badger.Item) error {
		var id bson.ObjectID
		copy(id[:], k[len(k)-len(id):])

		var msg data.Message
		if err := getDoc(txn, idKey(prefixMessage, id), &msg); err != nil {
			return err
		}
		if !msg.IsShowed {
			return nil
		}
		return fn(&msg)
	})
	if errors.Is(err, errStop) {
		return nil
	}
	return err
}

// ListVisibleMessages returns up to n shown messages after skipping skip of them.
func (s *MessagesStore) ListVisibleMessages(ctx context.Context, discussionID bson.ObjectID, skip, n int64) ([]*data.Message, error) {
	if n <= 0 {
		return nil, nil
	}
	var (
		out  []*data.Message
		seen int64
	)
	err := s.db.view(ctx, func(txn *badger.Txn) error {
		return eachVisible(txn, discussionID, func(m *data.Message) error {
			seen++
			if seen <= skip {
				return nil
			}
			out = append(out, m)
			if int64(len(out)) == n {
				return errStop
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CountVisibleMessages counts the shown messages of a discussion.
func (s *MessagesStore) CountVisibleMessages(ctx context.Context, discussionID bson.ObjectID) (int64, error) {
	var total int64
	err := s.db.view(ctx, func(txn *badger.Txn) error {
		return eachVisible(txn, discussionID, func(*data.Message) error {
			total++
			return nil
		})
	})
	return total, err
}

// UpdateContent replaces the content of a message.
func (s *MessagesStore) UpdateContent(ctx context.Context, id bson.ObjectID, content string, at time.Time) error {
	return s.modify(ctx, id, func(m *data.Message) bool {
		m.Content = content
		m.UpdatedAt = at
		return true
	})
}

// HideMessage flags a message as not shown. Hiding a hidden message is a
// no-op and leaves UpdatedAt untouched.
func (s *MessagesStore) HideMessage(ctx context.Context, id bson.ObjectID, at time.Time) error {
	return s.modify(ctx, id, func(m *data.Message) bool {
		if !m.IsShowed {
			return false
		}
		m.IsShowed = false
		m.UpdatedAt = at
		return true
	})
}

// modify applies fn to the stored message and writes it back when fn
// reports a change.
func (s *MessagesStore) modify(ctx context.Context, id bson.ObjectID, fn func(*data.Message) bool) error {
	k := idKey(prefixMessage, id)
	return s.db.update(ctx, func(txn *badger.Txn) error {
		var m data.Message
		if err := getDoc(txn, k, &m); err != nil {
			return err
		}
		if !fn(&m) {
			return nil
		}
		return putDoc(txn, k, &m)
	})
}
