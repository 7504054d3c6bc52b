// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"github.com/example/cocsheet/internal/errs"
	"github.com/example/cocsheet/internal/ports/secondary"
)

// querier is the subset of *sql.DB and *sql.Tx the repositories use.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

// conn returns the transaction carried by ctx, or db when there is none.
// With a single pooled connection, a repository that bypassed an open
// transaction would block forever, so every statement goes through here.
func conn(ctx context.Context, db *sql.DB) querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}

// RetryPolicy controls how many times a transaction is attempted on
// transient failures and how long to wait between attempts.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
}

// DefaultRetryPolicy waits 50ms, 100ms, 150ms, ... across five attempts.
var DefaultRetryPolicy = RetryPolicy{Attempts: 5, BaseDelay: 50 * time.Millisecond}

// linearBackOff grows the wait by BaseDelay on every retry.
type linearBackOff struct {
	step  time.Duration
	tries int
}

func (b *linearBackOff) NextBackOff() time.Duration {
	b.tries++
	return time.Duration(b.tries) * b.step
}

func (b *linearBackOff) Reset() { b.tries = 0 }

// Transactor implements secondary.Transactor on a *sql.DB.
type Transactor struct {
	db     *sql.DB
	policy RetryPolicy
	logger *zap.Logger
}

// NewTransactor creates a Transactor. A nil logger discards retry warnings.
func NewTransactor(db *sql.DB, policy RetryPolicy, logger *zap.Logger) *Transactor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if policy.Attempts < 1 {
		policy.Attempts = 1
	}
	return &Transactor{db: db, policy: policy, logger: logger.Named("tx")}
}

// WithinTx runs fn inside a transaction carried by ctx. Nested calls join the
// outer transaction. Busy or locked failures are retried with a linear
// backoff; when attempts run out the caller gets a transient error.
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		err := t.runOnce(ctx, fn)
		if err == nil {
			return struct{}{}, nil
		}
		if errs.KindOf(err) == errs.KindTransient {
			return struct{}{}, err
		}
		return struct{}{}, backoff.Permanent(err)
	},
		backoff.WithBackOff(&linearBackOff{step: t.policy.BaseDelay}),
		backoff.WithMaxTries(uint(t.policy.Attempts)),
		backoff.WithNotify(func(err error, wait time.Duration) {
			t.logger.Warn("transaction busy, retrying",
				zap.Int("attempt", attempt),
				zap.Duration("wait", wait),
				zap.Error(err))
		}),
	)
	if err == nil {
		return nil
	}
	if errs.KindOf(err) == errs.KindTransient {
		return errs.Wrap(errs.KindTransient, err, "store busy after %d attempts", attempt)
	}
	return err
}

func (t *Transactor) runOnce(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return classify(err, "failed to begin transaction")
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return classify(err, "failed to commit transaction")
	}
	return nil
}

var _ secondary.Transactor = (*Transactor)(nil)
