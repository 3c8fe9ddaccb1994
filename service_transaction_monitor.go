package membership

import (
	"sync"
	"time"
)

// TransactionMetrics provides transaction performance and failure statistics.
type TransactionMetrics struct {
	TotalTransactions      int64         `json:"total_transactions"`
	SuccessfulTransactions int64         `json:"successful_transactions"`
	FailedTransactions     int64         `json:"failed_transactions"`
	AverageDuration        time.Duration `json:"average_duration"`
	MaxDuration            time.Duration `json:"max_duration"`
	MinDuration            time.Duration `json:"min_duration"`
	LastReset              time.Time     `json:"last_reset"`
}

type transactionMonitor struct {
	mu            sync.Mutex
	total         int64
	succeeded     int64
	failed        int64
	totalDuration time.Duration
	maxDuration   time.Duration
	minDuration   time.Duration // zero until the first sample
	lastReset     time.Time
}

func newTransactionMonitor() *transactionMonitor {
	return &transactionMonitor{lastReset: time.Now()}
}

func (tm *transactionMonitor) recordTransaction(d time.Duration, success bool) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	tm.total++
	tm.totalDuration += d
	if success {
		tm.succeeded++
	} else {
		tm.failed++
	}
	if d > tm.maxDuration {
		tm.maxDuration = d
	}
	if tm.total == 1 || d < tm.minDuration {
		tm.minDuration = d
	}
}

func (tm *transactionMonitor) getMetrics() TransactionMetrics {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	m := TransactionMetrics{
		TotalTransactions:      tm.total,
		SuccessfulTransactions: tm.succeeded,
		FailedTransactions:     tm.failed,
		MaxDuration:            tm.maxDuration,
		MinDuration:            tm.minDuration,
		LastReset:              tm.lastReset,
	}
	if tm.total > 0 {
		m.AverageDuration = tm.totalDuration / time.Duration(tm.total)
	}
	return m
}

func (tm *transactionMonitor) reset() {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	tm.total, tm.succeeded, tm.failed = 0, 0, 0
	tm.totalDuration, tm.maxDuration, tm.minDuration = 0, 0, 0
	tm.lastReset = time.Now()
}
