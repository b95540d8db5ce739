package embedded

import (
	"context"
	"errors"
	"time"

	"github.com/PaulBabatuyi/discussions-gRPC/internal/data"
	"github.com/dgraph-io/badger/v4"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// DiscussionsStore performs discussion and membership operations on badger.
type DiscussionsStore struct {
	db *DB
}

// CreateDiscussion stores d under a new ID; ErrDuplicate when the name is taken.
func (s *DiscussionsStore) CreateDiscussion(ctx context.Context, d *data.Discussion) (*data.Discussion, error) {
	if d.Members == nil {
		d.Members = []data.Membership{}
	}
	d.ID = bson.NewObjectID()
	nameKey := key(prefixDiscussionName, []byte(d.Name))

	err := s.db.update(ctx, func(txn *badger.Txn) error {
		taken, err := exists(txn, nameKey)
		if err != nil {
			return err
		}
		if taken {
			return data.ErrDuplicate
		}
		if err := txn.Set(nameKey, d.ID[:]); err != nil {
			return err
		}
		return putDoc(txn, idKey(prefixDiscussion, d.ID), d)
	})
	if err != nil {
		d.ID = bson.ObjectID{}
		return nil, err
	}
	return d, nil
}

// GetDiscussionByID finds a discussion by ObjectID.
func (s *DiscussionsStore) GetDiscussionByID(ctx context.Context, id bson.ObjectID) (*data.Discussion, error) {
	var d data.Discussion
	err := s.db.view(ctx, func(txn *badger.Txn) error {
		return getDoc(txn, idKey(prefixDiscussion, id), &d)
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// GetDiscussionsByIDs loads discussions in the order of ids, skipping dangling ones.
func (s *DiscussionsStore) GetDiscussionsByIDs(ctx context.Context, ids []bson.ObjectID) ([]*data.Discussion, error) {
	var out []*data.Discussion
	err := s.db.view(ctx, func(txn *badger.Txn) error {
		for _, id := range ids {
			var d data.Discussion
			err := getDoc(txn, idKey(prefixDiscussion, id), &d)
			if errors.Is(err, data.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			out = append(out, &d)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AddMember appends m unless m.User is already a member. Check and write share
// one transaction; ErrConflict for an existing member.
func (s *DiscussionsStore) AddMember(ctx context.Context, discussionID bson.ObjectID, m data.Membership) error {
	return s.modify(ctx, discussionID, func(d *data.Discussion) error {
		if _, ok := d.Member(m.User); ok {
			return data.ErrConflict
		}
		d.Members = append(d.Members, m)
		d.UpdatedAt = m.LastSeenAt
		return nil
	})
}

// MarkSeen sets lastSeenAt of userID's membership; ErrNotFound without one.
func (s *DiscussionsStore) MarkSeen(ctx context.Context, discussionID, userID bson.ObjectID, at time.Time) error {
	return s.modify(ctx, discussionID, func(d *data.Discussion) error {
		m, ok := d.Member(userID)
		if !ok {
			return data.ErrNotFound
		}
		m.LastSeenAt = at
		return nil
	})
}

// SetLastMessageSentAt records the time of the latest message.
func (s *DiscussionsStore) SetLastMessageSentAt(ctx context.Context, discussionID bson.ObjectID, at time.Time) error {
	return s.modify(ctx, discussionID, func(d *data.Discussion) error {
		d.LastMessageSentAt = &at
		d.UpdatedAt = at
		return nil
	})
}

func (s *DiscussionsStore) modify(ctx context.Context, id bson.ObjectID, fn func(*data.Discussion) error) error {
	k := idKey(prefixDiscussion, id)
	return s.db.update(ctx, func(txn *badger.Txn) error {
		var d data.Discussion
		if err := getDoc(txn, k, &d); err != nil {
			return err
		}
		if err := fn(&d); err != nil {
			return err
		}
		return putDoc(txn, k, &d)
	})
}
