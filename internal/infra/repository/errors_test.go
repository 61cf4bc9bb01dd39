//go:build unit

package repository

import (
	"io"
	"log/slog"
	"testing"

	"flashsale-service/internal/infra"
	"flashsale-service/internal/pkg/errs"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestDBErrKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want infra.RepositoryErrorKind
	}{
		{
			name: "no rows",
			err:  pgx.ErrNoRows,
			want: infra.KindNotFound,
		},
		{
			name: "wrapped no rows",
			err:  errs.Wrap(pgx.ErrNoRows, "failed to scan row"),
			want: infra.KindNotFound,
		},
		{
			name: "unique violation",
			err:  &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "voucher_orders_pkey"},
			want: infra.KindDuplicateKey,
		},
		{
			name: "wrapped unique violation",
			err:  errs.Wrap(&pgconn.PgError{Code: pgerrcode.UniqueViolation}, "failed to exec insert"),
			want: infra.KindDuplicateKey,
		},
		{
			name: "other postgres error",
			err:  &pgconn.PgError{Code: pgerrcode.SerializationFailure},
			want: infra.KindDBFailure,
		},
		{
			name: "plain error",
			err:  errs.New("connection reset by peer"),
			want: infra.KindDBFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dbErrKind(tt.err))
		})
	}
}

// The persistence worker dispatches on IsKind(err, KindDuplicateKey) to
// tell a replayed insert from a failed one; the wrapped error must keep
// that kind visible through the errs chain.
func TestDuplicateKeyVisibleThroughWrapping(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	raw := &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "voucher_orders_user_id_voucher_id_key"}

	err := infra.WrapRepoErr(logger, dbErrKind(raw), "order already persisted", raw)

	assert.True(t, infra.IsKind(err, infra.KindDuplicateKey))
	assert.False(t, infra.IsKind(err, infra.KindDBFailure))
}
