package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/PaulBabatuyi/discussions-gRPC/internal/chat"
	"github.com/PaulBabatuyi/discussions-gRPC/internal/data"
	"github.com/PaulBabatuyi/discussions-gRPC/internal/db"
	"github.com/PaulBabatuyi/discussions-gRPC/internal/embedded"
)

// store bundles the repositories of one backend.
type store struct {
	users       chat.UserRepository
	discussions chat.DiscussionRepository
	messages    chat.MessageRepository

	ping  func(context.Context) error
	close func(context.Context) error
}

// openStore opens the backend selected by cfg.Store.
func openStore(ctx context.Context, cfg Config, log *slog.Logger) (*store, error) {
	switch cfg.Store {
	case "mongo":
		client, err := db.New(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		if err := client.CreateIndexes(ctx); err != nil {
			_ = client.Close(ctx)
			return nil, err
		}
		log.Info("using mongo store", "database", cfg.MongoDatabase)
		return &store{
			users:       data.NewUsersStore(client.UsersCollection()),
			discussions: data.NewDiscussionsStore(client.DiscussionsCollection()),
			messages:    data.NewMessagesStore(client.MessagesCollection()),
			ping:        client.Ping,
			close:       client.Close,
		}, nil

	case "badger":
		bdb, err := embedded.Open(cfg.BadgerPath)
		if err != nil {
			return nil, err
		}
		log.Info("using badger store", "path", cfg.BadgerPath, "in_memory", cfg.BadgerPath == "")
		return embeddedStore(bdb), nil
	}
	return nil, fmt.Errorf("unknown store %q", cfg.Store)
}

func embeddedStore(bdb *embedded.DB) *store {
	return &store{
		users:       bdb.Users(),
		discussions: bdb.Discussions(),
		messages:    bdb.Messages(),
		ping:        bdb.Ping,
		close:       func(context.Context) error { return bdb.Close() },
	}
}
