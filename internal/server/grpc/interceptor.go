package grpc

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// publicPrefix marks methods that need no token.
const publicPrefix = "/grpc.health.v1.Health/"

const requestIDKey = "x-request-id"

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	ctx, err := s.authenticate(ctx, info.FullMethod)
	if err != nil {
		return nil, err
	}
	return handler(ctx, req)
}

func (s *GRPCServer) accessTokenStreamInterceptor(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
	ctx, err := s.authenticate(ss.Context(), info.FullMethod)
	if err != nil {
		return err
	}
	return handler(srv, &authenticatedStream{ServerStream: ss, ctx: ctx})
}

// authenticate attaches a request id and, for non-public methods, the
// validated claims to ctx. Every rejection carries the same status.
func (s *GRPCServer) authenticate(ctx context.Context, method string) (context.Context, error) {
	md, _ := metadata.FromIncomingContext(ctx)

	requestID := first(md, requestIDKey)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	ctx = auth.WithRequestID(ctx, requestID)

	if strings.HasPrefix(method, publicPrefix) {
		return ctx, nil
	}

	claims, err := s.guard.Authenticate(ctx, first(md, common.AuthorizationMetadataKey))
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}

	return auth.WithClaims(ctx, claims), nil
}

func first(md metadata.MD, key string) string {
	if values := md.Get(key); len(values) > 0 {
		return values[0]
	}
	return ""
}

type authenticatedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *authenticatedStream) Context() context.Context {
	return s.ctx
}
