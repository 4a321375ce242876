package testutil

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/alexanderramin/crewplan/internal/db"
)

// ErrInjected is the default failure returned by FailOnNthExecUoW.
var ErrInjected = errors.New("injected exec failure")

// FailOnNthExecUoW runs the callback in a real transaction but fails the
// FailOn-th ExecContext call (1-based). Reads are never counted. Execs records
// how many writes were attempted across all transactions.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int32
	Err    error

	Execs atomic.Int32
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	failErr := u.Err
	if failErr == nil {
		failErr = ErrInjected
	}
	wrapped := &failOnNthExec{DBTX: tx, uow: u, failErr: failErr}
	if fnErr := fn(ctx, wrapped); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

type failOnNthExec struct {
	db.DBTX
	uow     *FailOnNthExecUoW
	count   int32
	failErr error
}

func (f *failOnNthExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.count++
	f.uow.Execs.Add(1)
	if f.count == f.uow.FailOn {
		return nil, f.failErr
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
