package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// ErrQueueClosed is returned for operations submitted after Close
var ErrQueueClosed = errors.New("db queue closed")

// DBQueue serializes access to the SQLite database. The driver tolerates
// a single writer at a time, so every operation funnels through one
// worker goroutine.
type DBQueue struct {
	db       *sql.DB
	requests chan *dbRequest
	done     chan struct{}
	drained  chan struct{}
}

// dbRequest represents a database operation request
type dbRequest struct {
	op       func(*sql.DB) error
	response chan error
}

// NewDBQueue creates a new DBQueue instance
func NewDBQueue(db *sql.DB) *DBQueue {
	q := &DBQueue{
		db:       db,
		requests: make(chan *dbRequest, 100),
		done:     make(chan struct{}),
		drained:  make(chan struct{}),
	}
	go q.run()
	return q
}

// run processes requests sequentially. On Close it finishes whatever was
// already accepted before exiting.
func (q *DBQueue) run() {
	defer close(q.drained)
	for {
		select {
		case req := <-q.requests:
			req.response <- q.executeWithRetry(req.op)
		case <-q.done:
			for {
				select {
				case req := <-q.requests:
					req.response <- q.executeWithRetry(req.op)
				default:
					return
				}
			}
		}
	}
}

// executeWithRetry executes an operation with retry logic for SQLITE_BUSY errors
func (q *DBQueue) executeWithRetry(op func(*sql.DB) error) error {
	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		err := op(q.db)
		if err == nil {
			return nil
		}
		if isBusyError(err) {
			time.Sleep(time.Millisecond * time.Duration(100*(i+1)))
			continue
		}
		return err
	}
	return errors.New("max retries exceeded for SQLITE_BUSY")
}

// isBusyError checks if the error is a SQLITE_BUSY error
func isBusyError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "database is locked") ||
		strings.Contains(errStr, "SQLITE_BUSY")
}

// Execute runs op on the worker goroutine and waits for the result. The
// context bounds both queueing and the wait; op should reach for the
// same context through the *Context query methods.
func (q *DBQueue) Execute(ctx context.Context, op func(*sql.DB) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	req := &dbRequest{
		op:       op,
		response: make(chan error, 1),
	}

	select {
	case q.requests <- req:
	case <-q.done:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-req.response:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-q.drained:
		// The worker may have answered just before exiting
		select {
		case err := <-req.response:
			return err
		default:
			return ErrQueueClosed
		}
	}
}

// Close stops the queue after draining already accepted requests
func (q *DBQueue) Close() {
	close(q.done)
	<-q.drained
}
