package membership

import (
	"context"
	"database/sql"
	"time"

	"github.com/uptrace/bun"
)

// Transaction executes fn within a database transaction with automatic commit/rollback.
// fn receives a Service bound to the transaction; every call made through it
// joins the transaction. If the service is already bound to a transaction a
// savepoint is used.
//
// Example:
//
//	err := service.Transaction(ctx, func(ctx context.Context, tx *membership.Service) error {
//	    if err := tx.Assign(ctx, "user1", staffID, true); err != nil {
//	        return err // This will cause a rollback
//	    }
//	    return tx.AddLeader(ctx, "user1", staffID)
//	})
func (s *Service) Transaction(ctx context.Context, fn func(ctx context.Context, tx *Service) error) error {
	return s.TransactionWithOptions(ctx, nil, fn)
}

// TransactionWithOptions is Transaction with explicit isolation/read-only options.
func (s *Service) TransactionWithOptions(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, tx *Service) error) error {
	start := time.Now()

	err := s.db.RunInTx(ctx, opts, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, s.withDB(tx))
	})

	s.txMonitor.recordTransaction(time.Since(start), err == nil)
	return err
}

// ReadOnlyTransaction executes fn within a read-only transaction.
func (s *Service) ReadOnlyTransaction(ctx context.Context, fn func(ctx context.Context, tx *Service) error) error {
	return s.TransactionWithOptions(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

// GetTransactionMetrics returns the current transaction performance metrics.
func (s *Service) GetTransactionMetrics() TransactionMetrics {
	return s.txMonitor.getMetrics()
}

// ResetTransactionMetrics resets all transaction metrics.
func (s *Service) ResetTransactionMetrics() {
	s.txMonitor.reset()
}

// IsTransactionHealthy checks if transaction performance is within acceptable thresholds.
func (s *Service) IsTransactionHealthy() bool {
	metrics := s.txMonitor.getMetrics()

	// Too few samples to judge
	if metrics.TotalTransactions < 10 {
		return true
	}

	failureRate := float64(metrics.FailedTransactions) / float64(metrics.TotalTransactions)
	if failureRate > 0.05 {
		return false
	}

	return metrics.AverageDuration <= time.Second
}
