package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SscSPs/pricing_admin_backend/internal/apperrors"
	portsrepo "github.com/SscSPs/pricing_admin_backend/internal/core/ports/repositories"
	"github.com/SscSPs/pricing_admin_backend/internal/middleware"
	"github.com/jackc/pgx/v5"
)

// BaseService provides common functionality for all services
type BaseService struct{}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// now is the single clock every service stamps rows with.
func now() time.Time {
	return time.Now().UTC()
}

// withTx runs fn inside a transaction and commits when fn succeeds.
// The deferred rollback is a no-op once the transaction is committed.
func withTx(ctx context.Context, tm portsrepo.TransactionManager, fn func(tx pgx.Tx) error) error {
	tx, err := tm.Begin(ctx)
	if err != nil {
		return err
	}
	defer tm.Rollback(ctx, tx) //nolint:errcheck

	if err := fn(tx); err != nil {
		return err
	}
	return tm.Commit(ctx, tx)
}

// notFoundAsNil turns a repository ErrNotFound into a nil result for optional lookups.
func notFoundAsNil[T any](v *T, err error) (*T, error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	return v, err
}
