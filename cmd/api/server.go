package main

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	v1 "github.com/PaulBabatuyi/discussions-gRPC/api/discussion/v1"
	"github.com/PaulBabatuyi/discussions-gRPC/internal/auth"
	"github.com/PaulBabatuyi/discussions-gRPC/internal/chat"
	"github.com/PaulBabatuyi/discussions-gRPC/internal/metrics"
	"github.com/go-playground/validator/v10"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Server implements the discussion service on top of the chat services.
type Server struct {
	v1.UnimplementedDiscussionServiceServer

	directory *chat.Directory
	ledger    *chat.Ledger
	messages  *chat.Messages
	feed      *chat.Feed

	auth     *auth.JWTManager
	hub      *ConnectionHub
	validate *validator.Validate
	metrics  *metrics.Collector
	log      *slog.Logger
}

// newServer wires the chat services over st.
func newServer(st *store, hasher chat.PasswordHasher, authMgr *auth.JWTManager, hub *ConnectionHub, m *metrics.Collector, log *slog.Logger) *Server {
	// one clock for all services so stored timestamps never collide
	opts := []chat.Option{chat.WithLogger(log), chat.WithClock(chat.NewClock(time.Now).Now)}
	return &Server{
		directory: chat.NewDirectory(st.users, hasher, opts...),
		ledger:    chat.NewLedger(st.users, st.discussions, opts...),
		messages:  chat.NewMessages(st.users, st.discussions, st.messages, opts...),
		feed:      chat.NewFeed(st.users, st.discussions, opts...),
		auth:      authMgr,
		hub:       hub,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		metrics:   m,
		log:       log,
	}
}

// registerService registers the DiscussionService on the given gRPC server.
func registerService(s *grpc.Server, srv *Server) {
	v1.RegisterDiscussionServiceServer(s, srv)
}

// check validates req against its struct tags.
func (s *Server) check(req any) error {
	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return status.Errorf(codes.InvalidArgument, "invalid %s: failed %s", fe.Field(), fieldRule(fe))
		}
		return status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}
	return nil
}

func fieldRule(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fmt.Sprintf("%s=%s", fe.Tag(), fe.Param())
}
