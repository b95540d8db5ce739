package data

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MessagesStore provides message database operations.
type MessagesStore struct {
	// coll is reference to "messages" collection in MongoDB
	// Set via NewMessagesStore() and used in all methods below
	coll *mongo.Collection
}

// NewMessagesStore returns a MessagesStore using given collection.
func NewMessagesStore(coll *mongo.Collection) *MessagesStore {
	return &MessagesStore{coll: coll} // Store reference to MongoDB collection
}

// CreateMessage inserts a message document and returns the saved record.
func (m *MessagesStore) CreateMessage(ctx context.Context, msg *Message) (*Message, error) {
	// InsertOne adds the message document to MongoDB collection
	result, err := m.coll.InsertOne(ctx, msg)
	if err != nil {
		return nil, err // Database error (connection, validation, etc)
	}

	// Extract MongoDB's auto-generated _id and populate in struct
	msg.ID = result.InsertedID.(bson.ObjectID)
	return msg, nil
}

// GetMessageByID finds a message by ObjectID whether it is shown or hidden.
func (m *MessagesStore) GetMessageByID(ctx context.Context, id bson.ObjectID) (*Message, error) {
	var msg Message
	if err := m.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&msg); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &msg, nil
}

// visibleIn is the filter shared by listing and counting.
func visibleIn(discussionID bson.ObjectID) bson.M {
	return bson.M{"discussion": discussionID, "is_showed": true}
}

// ListVisibleMessages returns up to n shown messages of the discussion, oldest
// first, after skipping the first skip of them.
func (m *MessagesStore) ListVisibleMessages(ctx context.Context, discussionID bson.ObjectID, skip, n int64) ([]*Message, error) {
	// A Mongo limit of 0 means "no limit"
	if n <= 0 {
		return nil, nil
	}

	// Creation order; _id breaks ties between messages created in the same millisecond
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(skip).
		SetLimit(n)

	cursor, err := m.coll.Find(ctx, visibleIn(discussionID), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []*Message
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// CountVisibleMessages counts every shown message of the discussion.
func (m *MessagesStore) CountVisibleMessages(ctx context.Context, discussionID bson.ObjectID) (int64, error) {
	return m.coll.CountDocuments(ctx, visibleIn(discussionID))
}

// UpdateContent replaces the content of a message.
func (m *MessagesStore) UpdateContent(ctx context.Context, id bson.ObjectID, content string, at time.Time) error {
	return m.set(ctx, id, bson.M{"content": content, "updated_at": at})
}

// HideMessage flags a message as not shown. Hiding a hidden message is a
// no-op and leaves updated_at untouched.
func (m *MessagesStore) HideMessage(ctx context.Context, id bson.ObjectID, at time.Time) error {
	res, err := m.coll.UpdateOne(ctx,
		bson.M{"_id": id, "is_showed": true},
		bson.M{"$set": bson.M{"is_showed": false, "updated_at": at}})
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// Nothing shown matched: either already hidden or missing
	n, err := m.coll.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MessagesStore) set(ctx context.Context, id bson.ObjectID, fields bson.M) error {
	res, err := m.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
