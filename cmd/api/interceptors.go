package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	v1 "github.com/PaulBabatuyi/discussions-gRPC/api/discussion/v1"
	"github.com/PaulBabatuyi/discussions-gRPC/internal/auth"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// context key type for storing auth claims in context
type authContextKey struct{}

// publicMethods skip authentication.
var publicMethods = map[string]bool{
	v1.DiscussionService_Register_FullMethodName: true,
	v1.DiscussionService_Login_FullMethodName:    true,
}

// getClaimsFromContext extracts auth claims from the context, if present.
func getClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(authContextKey{}).(*auth.Claims)
	return c, ok
}

// callerID returns the authenticated user id or an Unauthenticated status.
func callerID(ctx context.Context) (bson.ObjectID, error) {
	claims, ok := getClaimsFromContext(ctx)
	if !ok {
		return bson.ObjectID{}, status.Error(codes.Unauthenticated, "missing auth claims")
	}
	id, err := claims.UserObjectID()
	if err != nil {
		return bson.ObjectID{}, status.Error(codes.Unauthenticated, "invalid subject")
	}
	return id, nil
}

// authenticate verifies the bearer token in ctx and returns ctx with claims.
func authenticate(ctx context.Context, j *auth.JWTManager) (context.Context, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil, status.Errorf(codes.Unauthenticated, "missing metadata")
	}
	authHeaders := md.Get("authorization")
	if len(authHeaders) == 0 {
		return nil, status.Errorf(codes.Unauthenticated, "missing authorization header")
	}

	token := strings.TrimSpace(strings.TrimPrefix(authHeaders[0], "Bearer"))
	if token == "" {
		return nil, status.Errorf(codes.Unauthenticated, "invalid token")
	}

	claims, err := j.VerifyToken(token)
	if err != nil {
		return nil, status.Errorf(codes.Unauthenticated, "unauthenticated: %v", err)
	}
	if ci := callInfoFrom(ctx); ci != nil {
		ci.userID = claims.UserID
	}
	return context.WithValue(ctx, authContextKey{}, claims), nil
}

// authUnaryInterceptor enforces JWT authentication for all methods except
// Register and Login.
func authUnaryInterceptor(j *auth.JWTManager) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if publicMethods[info.FullMethod] {
			return handler(ctx, req)
		}
		ctx, err := authenticate(ctx, j)
		if err != nil {
			return nil, err
		}
		return handler(ctx, req)
	}
}

// authStreamInterceptor is the stream equivalent of authUnaryInterceptor.
func authStreamInterceptor(j *auth.JWTManager) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		if publicMethods[info.FullMethod] {
			return handler(srv, ss)
		}
		ctx, err := authenticate(ss.Context(), j)
		if err != nil {
			return err
		}
		return handler(srv, wrappedServerStream{ServerStream: ss, ctx: ctx})
	}
}

// wrappedServerStream overrides Context() of a grpc.ServerStream.
type wrappedServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (w wrappedServerStream) Context() context.Context { return w.ctx }

// callInfo is shared by the logging and auth interceptors of one call.
type callInfo struct {
	requestID string
	userID    string
}

type callInfoKey struct{}

func callInfoFrom(ctx context.Context) *callInfo {
	ci, _ := ctx.Value(callInfoKey{}).(*callInfo)
	return ci
}

// withCallInfo reuses an incoming x-request-id or creates one.
func withCallInfo(ctx context.Context) (context.Context, *callInfo) {
	ci := &callInfo{}
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if v := md.Get("x-request-id"); len(v) > 0 {
			ci.requestID = v[0]
		}
	}
	if ci.requestID == "" {
		ci.requestID = uuid.NewString()
	}
	return context.WithValue(ctx, callInfoKey{}, ci), ci
}

func callAttrs(ci *callInfo, method string, err error, d time.Duration) []any {
	attrs := []any{
		"request_id", ci.requestID,
		"method", method,
		"code", status.Code(err).String(),
		"duration_ms", d.Milliseconds(),
	}
	if ci.userID != "" {
		attrs = append(attrs, "user_id", ci.userID)
	}
	return attrs
}

func logCall(log *slog.Logger, attrs []any, err error) {
	switch status.Code(err) {
	case codes.OK:
		log.Info("rpc", attrs...)
	case codes.Internal, codes.Unknown, codes.Aborted:
		log.Error("rpc", attrs...)
	default:
		log.Warn("rpc", attrs...)
	}
}

// loggingUnaryInterceptor tags each call with a request id and logs its
// outcome. It must run before auth, which records the caller on the call info.
func loggingUnaryInterceptor(log *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		ctx, ci := withCallInfo(ctx)
		_ = grpc.SetHeader(ctx, metadata.Pairs("x-request-id", ci.requestID))

		start := time.Now()
		resp, err := handler(ctx, req)
		logCall(log, callAttrs(ci, info.FullMethod, err, time.Since(start)), err)
		return resp, err
	}
}

// loggingStreamInterceptor is the stream equivalent of loggingUnaryInterceptor.
func loggingStreamInterceptor(log *slog.Logger) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		ctx, ci := withCallInfo(ss.Context())
		_ = ss.SetHeader(metadata.Pairs("x-request-id", ci.requestID))

		start := time.Now()
		err := handler(srv, wrappedServerStream{ServerStream: ss, ctx: ctx})
		logCall(log, callAttrs(ci, info.FullMethod, err, time.Since(start)), err)
		return err
	}
}
