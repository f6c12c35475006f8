package interceptor

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/huyhqq/Student-Club-Management-System/internal/logger"
)

// Logging returns a server interceptor that logs each unary RPC with its status code and latency
func Logging() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)
		if code == codes.OK {
			logger.Debug("gRPC call", "method", info.FullMethod, "code", code.String(), "duration", time.Since(start))
		} else {
			logger.Warn("gRPC call failed", "method", info.FullMethod, "code", code.String(), "error", err)
		}
		return resp, err
	}
}

// Recovery returns a server interceptor that converts a handler panic into codes.Internal
func Recovery() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		defer func() {
			if p := recover(); p != nil {
				logger.Error("gRPC handler panic", "method", info.FullMethod, "panic", p)
				err = status.Error(codes.Internal, "internal error")
			}
		}()
		return handler(ctx, req)
	}
}
