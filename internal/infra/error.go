package infra

import (
	"context"
	"errors"
	"log/slog"

	"reservation-engine/internal/pkg/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type RepositoryErrorKind string

type RepositoryError struct {
	Kind RepositoryErrorKind
	msg  string
	err  error // wrapped low-level error
}

func (e RepositoryError) Error() string {
	if e.err != nil {
		return string(e.Kind) + ": " + e.msg + ": " + e.err.Error()
	}
	return string(e.Kind) + ": " + e.msg
}

func (e RepositoryError) Unwrap() error {
	return e.err
}

func WrapRepoErr(slogger *slog.Logger, kind RepositoryErrorKind, msg string, err error) error {
	level := slog.LevelError
	if kind == KindNotFound || kind == KindOverlap {
		level = slog.LevelWarn
	}
	attrs := []slog.Attr{slog.String("kind", string(kind))}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	slogger.LogAttrs(context.Background(), level, "Repository error: "+msg, attrs...)

	if err != nil {
		err = errs.Wrap(err, msg)
	}

	return RepositoryError{Kind: kind, msg: msg, err: err}
}

func IsKind(err error, kind RepositoryErrorKind) bool {
	var e RepositoryError
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Infrastructure-specific error kinds
const (
	KindNotFound           RepositoryErrorKind = "NOT_FOUND"
	KindDBFailure          RepositoryErrorKind = "DB_FAILURE"
	KindDuplicateKey       RepositoryErrorKind = "DUPLICATE_KEY"
	KindForeignKeyViolated RepositoryErrorKind = "FOREIGN_KEY_VIOLATED"
	KindOverlap            RepositoryErrorKind = "OVERLAP"
)

const (
	PgErrCodeUniqueViolation      = "23505"
	PgErrCodeForeignKeyViolation  = "23503"
	PgErrCodeExclusionViolation   = "23P01"
	PgErrCodeSerializationFailure = "40001"
	PgErrCodeDeadlockDetected     = "40P01"
)

// KindOf maps a pgx error to a repository error kind.
func KindOf(err error) RepositoryErrorKind {
	if errors.Is(err, pgx.ErrNoRows) {
		return KindNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case PgErrCodeUniqueViolation:
			return KindDuplicateKey
		case PgErrCodeForeignKeyViolation:
			return KindForeignKeyViolated
		case PgErrCodeExclusionViolation:
			return KindOverlap
		}
	}
	return KindDBFailure
}

// IsRetryable reports serialization failures and deadlocks, which a rerun of the transaction may resolve.
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case PgErrCodeSerializationFailure, PgErrCodeDeadlockDetected:
		return true
	default:
		return false
	}
}
