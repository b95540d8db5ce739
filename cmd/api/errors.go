package main

import (
	"errors"
	"log/slog"

	"github.com/PaulBabatuyi/discussions-gRPC/internal/chat"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// codeFor maps a chat error kind to its gRPC code.
func codeFor(err error) codes.Code {
	switch {
	case errors.Is(err, chat.ErrNotFound):
		return codes.NotFound
	case errors.Is(err, chat.ErrUnauthenticated):
		return codes.Unauthenticated
	case errors.Is(err, chat.ErrForbidden), errors.Is(err, chat.ErrInvalidCredentials):
		return codes.PermissionDenied
	case errors.Is(err, chat.ErrDuplicateName),
		errors.Is(err, chat.ErrDuplicateUsername),
		errors.Is(err, chat.ErrAlreadyMember):
		return codes.AlreadyExists
	case errors.Is(err, chat.ErrValidation):
		return codes.InvalidArgument
	case errors.Is(err, chat.ErrPartialFailure):
		return codes.Aborted
	default:
		return codes.Internal
	}
}

// toStatus converts a service error into a gRPC status error. Internal
// errors are logged and replaced with a generic message.
func toStatus(log *slog.Logger, op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	code := codeFor(err)
	if code == codes.Internal {
		log.Error("request failed", "op", op, "error", err)
		return status.Errorf(codes.Internal, "failed to %s", op)
	}
	if code == codes.Aborted {
		log.Warn("request partially applied", "op", op, "error", err)
	}
	return status.Error(code, err.Error())
}
