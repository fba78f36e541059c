package interceptor

import (
	"context"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"carmarket-rental-backend/internal/logger"
)

type LoggingInterceptor struct{}

func NewLoggingInterceptor() *LoggingInterceptor {
	return &LoggingInterceptor{}
}

// Unary returns a server interceptor that logs every unary RPC with its
// status code and duration.
func (i *LoggingInterceptor) Unary() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		ctx = logger.NewContext(ctx, "request_id", requestID(ctx), "method", info.FullMethod)

		resp, err := handler(ctx, req)

		code := status.Code(err)
		if err != nil {
			logger.WarnContext(ctx, "gRPC request failed", "code", code.String(), "duration", time.Since(start), "error", err)
		} else {
			logger.DebugContext(ctx, "gRPC request", "code", code.String(), "duration", time.Since(start))
		}
		return resp, err
	}
}

// requestID reuses the caller's x-request-id metadata when present.
func requestID(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get("x-request-id"); len(ids) > 0 && ids[0] != "" {
			return ids[0]
		}
	}
	return uuid.NewString()
}
