package repository

import (
	"errors"

	"flashsale-service/internal/infra"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// dbErrKind classifies a low-level database error into the kind upper
// layers dispatch on. The duplicate-key mapping is load-bearing: the
// persistence worker treats DUPLICATE_KEY as a replay of an already
// committed order and anything else as a failure.
func dbErrKind(err error) infra.RepositoryErrorKind {
	if errors.Is(err, pgx.ErrNoRows) {
		return infra.KindNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return infra.KindDuplicateKey
	}
	return infra.KindDBFailure
}
