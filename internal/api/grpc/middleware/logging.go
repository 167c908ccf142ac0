package middleware

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/medapp-server/internal/logger"
)

// InterceptorLogger adapts the application logger to the go-grpc-middleware
// logging interface.
func InterceptorLogger(l *logger.Logger) logging.Logger {
	return logging.LoggerFunc(func(ctx context.Context, lvl logging.Level, msg string, fields ...any) {
		l.Log(ctx, slog.Level(lvl), "gRPC: "+msg, fields...)
	})
}

// UnaryInterceptors returns the logging and recovery chain for the ops
// server. Panics are logged and reported as codes.Internal.
func UnaryInterceptors(l *logger.Logger) []grpc.UnaryServerInterceptor {
	return []grpc.UnaryServerInterceptor{
		logging.UnaryServerInterceptor(InterceptorLogger(l),
			logging.WithLogOnEvents(logging.FinishCall)),
		recovery.UnaryServerInterceptor(recovery.WithRecoveryHandlerContext(recoveryHandler(l))),
	}
}

// StreamInterceptors is the streaming counterpart of UnaryInterceptors.
func StreamInterceptors(l *logger.Logger) []grpc.StreamServerInterceptor {
	return []grpc.StreamServerInterceptor{
		logging.StreamServerInterceptor(InterceptorLogger(l),
			logging.WithLogOnEvents(logging.FinishCall)),
		recovery.StreamServerInterceptor(recovery.WithRecoveryHandlerContext(recoveryHandler(l))),
	}
}

func recoveryHandler(l *logger.Logger) recovery.RecoveryHandlerFuncContext {
	return func(ctx context.Context, p any) error {
		l.ErrorContext(ctx, "gRPC: recovered from panic",
			"panic", fmt.Sprint(p))
		return status.Error(codes.Internal, "internal error")
	}
}
