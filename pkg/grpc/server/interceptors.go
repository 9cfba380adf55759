package server

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

// RequestIDKey is the metadata key carrying a caller supplied request id.
const RequestIDKey = "x-request-id"

type loggerKey struct{}

// LoggerFromContext returns the request scoped logger installed by
// LoggingInterceptor, or fallback when there is none.
func LoggerFromContext(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok {
		return l
	}
	return fallback
}

func requestID(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get(RequestIDKey); len(ids) > 0 && ids[0] != "" {
			return ids[0]
		}
	}
	return uuid.NewString()
}

func clientAddr(ctx context.Context) string {
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		return p.Addr.String()
	}
	return "unknown"
}

// LoggingInterceptor creates a gRPC unary interceptor for request/response logging.
func LoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()

		reqLogger := logger.With(
			zap.String("request_id", requestID(ctx)),
			zap.String("method", info.FullMethod))
		reqLogger.Info("gRPC request started", zap.String("client_addr", clientAddr(ctx)))

		resp, err := handler(context.WithValue(ctx, loggerKey{}, reqLogger), req)
		duration := time.Since(start)

		if err != nil {
			st, _ := status.FromError(err)
			reqLogger.Error("gRPC request failed",
				zap.Duration("duration", duration),
				zap.String("status_code", st.Code().String()),
				zap.String("status_message", st.Message()),
				zap.Error(err))
		} else {
			reqLogger.Info("gRPC request completed",
				zap.Duration("duration", duration),
				zap.String("status_code", codes.OK.String()))
		}

		return resp, err
	}
}
