package main

import (
	"context"

	v1 "github.com/PaulBabatuyi/discussions-gRPC/api/discussion/v1"
	"github.com/PaulBabatuyi/discussions-gRPC/internal/data"
	"github.com/PaulBabatuyi/discussions-gRPC/internal/normalize"
	"github.com/samber/lo"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// Register creates an account and returns a token for it.
func (s *Server) Register(ctx context.Context, req *v1.RegisterRequest) (*v1.AuthResponse, error) {
	req.Username = normalize.Username(req.Username)
	if err := s.check(req); err != nil {
		return nil, err
	}

	user, err := s.directory.Register(ctx, req.Username, req.Password)
	if err != nil {
		return nil, toStatus(s.log, "register user", err)
	}
	return s.issue(user)
}

// Login authenticates a user and returns a JWT token.
func (s *Server) Login(ctx context.Context, req *v1.LoginRequest) (*v1.AuthResponse, error) {
	req.Username = normalize.Username(req.Username)
	if err := s.check(req); err != nil {
		return nil, err
	}

	user, err := s.directory.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return nil, toStatus(s.log, "log in", err)
	}
	return s.issue(user)
}

func (s *Server) issue(user *data.User) (*v1.AuthResponse, error) {
	token, expiresAt, err := s.auth.GenerateToken(user.ID, user.Username)
	if err != nil {
		s.log.Error("token generation failed", "user_id", user.ID.Hex(), "error", err)
		return nil, status.Errorf(codes.Internal, "failed to generate token")
	}
	return &v1.AuthResponse{
		User:      toUser(user),
		Token:     token,
		ExpiresAt: timestamppb.New(expiresAt),
	}, nil
}

// Me returns the authenticated user.
func (s *Server) Me(ctx context.Context, _ *v1.MeRequest) (*v1.UserResponse, error) {
	caller, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.directory.FindByID(ctx, caller)
	if err != nil {
		return nil, toStatus(s.log, "load user", err)
	}
	return &v1.UserResponse{User: toUser(user)}, nil
}

// GetUser returns any user by id.
func (s *Server) GetUser(ctx context.Context, req *v1.GetUserRequest) (*v1.UserResponse, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	id, err := parseID("user_id", req.UserId)
	if err != nil {
		return nil, err
	}

	user, err := s.directory.FindByID(ctx, id)
	if err != nil {
		return nil, toStatus(s.log, "load user", err)
	}
	return &v1.UserResponse{User: toUser(user)}, nil
}

// ListUsers returns every user, oldest first.
func (s *Server) ListUsers(ctx context.Context, _ *v1.ListUsersRequest) (*v1.ListUsersResponse, error) {
	users, err := s.directory.List(ctx)
	if err != nil {
		return nil, toStatus(s.log, "list users", err)
	}
	return &v1.ListUsersResponse{Users: lo.Map(users, func(u *data.User, _ int) *v1.User { return toUser(u) })}, nil
}

// ChangePassword replaces the caller's password after checking the current one.
func (s *Server) ChangePassword(ctx context.Context, req *v1.ChangePasswordRequest) (*v1.ChangePasswordResponse, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	caller, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	changed, err := s.directory.ChangePassword(ctx, caller, req.CurrentPassword, req.NewPassword)
	if err != nil {
		return nil, toStatus(s.log, "change password", err)
	}
	return &v1.ChangePasswordResponse{Changed: changed}, nil
}
