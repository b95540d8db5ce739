// Package embedded implements the chat repositories on an embedded BadgerDB.
//
// Documents are BSON-encoded data models under typed key prefixes. Unique
// names are separate index keys written in the same transaction as the
// document, so badger's conflict detection makes them race-free.
package embedded

import (
	"context"
	"errors"
	"fmt"

	"github.com/PaulBabatuyi/discussions-gRPC/internal/data"
	"github.com/dgraph-io/badger/v4"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// maxTxnRetries bounds the retries of a transaction that lost a conflict.
const maxTxnRetries = 5

// Key prefixes.
var (
	prefixUser              = []byte("u/")
	prefixUsername          = []byte("un/")
	prefixDiscussion        = []byte("d/")
	prefixDiscussionName    = []byte("dn/")
	prefixMessage           = []byte("m/")
	prefixDiscussionMessage = []byte("dm/")
)

// DB wraps a badger.DB and hands out the stores.
type DB struct {
	db *badger.DB
}

// Open opens (or creates) the database at path. An empty path keeps
// everything in memory.
func Open(path string) (*DB, error) {
	opts := badger.DefaultOptions(path).WithLoggingLevel(badger.WARNING)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	bdb, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}
	return &DB{db: bdb}, nil
}

// Users returns the users store.
func (d *DB) Users() *UsersStore { return &UsersStore{db: d} }

// Discussions returns the discussions store.
func (d *DB) Discussions() *DiscussionsStore { return &DiscussionsStore{db: d} }

// Messages returns the messages store.
func (d *DB) Messages() *MessagesStore { return &MessagesStore{db: d} }

// Ping reports whether the database is still open.
func (d *DB) Ping(context.Context) error {
	if d.db.IsClosed() {
		return errors.New("badger is closed")
	}
	return nil
}

// Close flushes and closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// update runs fn in a read-write transaction, retrying when badger reports a
// conflict with a concurrent transaction.
func (d *DB) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt < maxTxnRetries; attempt++ {
		if err = ctx.Err(); err != nil {
			return err
		}
		err = d.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

// view runs fn in a read-only transaction.
func (d *DB) view(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.db.View(fn)
}

func key(prefix []byte, parts ...[]byte) []byte {
	k := append([]byte{}, prefix...)
	for _, p := range parts {
		k = append(k, p...)
	}
	return k
}

func idKey(prefix []byte, id bson.ObjectID) []byte {
	return key(prefix, id[:])
}

// getDoc decodes the BSON document stored at k into v.
func getDoc(txn *badger.Txn, k []byte, v any) error {
	item, err := txn.Get(k)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return data.ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return bson.Unmarshal(val, v)
	})
}

func putDoc(txn *badger.Txn, k []byte, v any) error {
	b, err := bson.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return txn.Set(k, b)
}

// exists reports whether k is set.
func exists(txn *badger.Txn, k []byte) (bool, error) {
	_, err := txn.Get(k)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	return err == nil, err
}

// getID reads an ObjectID stored as the value of an index key.
func getID(txn *badger.Txn, k []byte) (bson.ObjectID, error) {
	var id bson.ObjectID
	item, err := txn.Get(k)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return id, data.ErrNotFound
	}
	if err != nil {
		return id, err
	}
	err = item.Value(func(val []byte) error {
		if len(val) != len(id) {
			return fmt.Errorf("corrupt index value at %q", k)
		}
		copy(id[:], val)
		return nil
	})
	return id, err
}

// scan calls fn for every key under prefix, in key order. A copy of the key
// and a lazily read value are passed.
func scan(txn *badger.Txn, prefix []byte, withValues bool, fn func(k []byte, item *badger.Item) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = withValues
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		if err := fn(item.KeyCopy(nil), item); err != nil {
			return err
		}
	}
	return nil
}
