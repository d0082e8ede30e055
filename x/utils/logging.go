package utils

import (
	"time"

	"github.com/iov-one/bounties"
)

// Logging is a decorator to log messages as they pass through.
type Logging struct{}

var _ bounties.Decorator = Logging{}

// NewLogging creates a Logging decorator.
func NewLogging() Logging {
	return Logging{}
}

// Check logs error -> info, success -> debug.
func (r Logging) Check(ctx bounties.Context, store bounties.KVStore, tx bounties.Tx, next bounties.Checker) (*bounties.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, start, resLog, err, true)
	return res, err
}

// Deliver logs error -> error, success -> info.
func (r Logging) Deliver(ctx bounties.Context, store bounties.KVStore, tx bounties.Tx, next bounties.Deliverer) (*bounties.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, start, resLog, err, false)
	return res, err
}

// logDuration writes information about the time and result to the logger.
func logDuration(ctx bounties.Context, start time.Time, msg string, err error, lowPrio bool) {
	delta := time.Since(start)
	logger := bounties.GetLogger(ctx).With("duration", delta/time.Microsecond)
	if err != nil {
		logger = logger.With("err", err)
		logger.Error(msg)
		return
	}
	// The message can be empty, the entry still carries the rest of the
	// information.
	if lowPrio {
		logger.Debug(msg)
	} else {
		logger.Info(msg)
	}
}
