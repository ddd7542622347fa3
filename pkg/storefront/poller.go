package storefront

import (
	"context"
	"time"
)

// Outcome is the final verdict of one watched payment.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
	OutcomeTimedOut  Outcome = "timed_out"
)

// Messages shown to the payer. The timeout message is deliberately different
// from the failure one: a timed-out watch says nothing about the payment
// itself, which may still settle server-side.
const (
	msgSucceeded = "Payment received. Thank you!"
	msgFailed    = "Payment was not completed."
	msgTimedOut  = "We could not confirm your payment in time. If you approved it, your account will be updated shortly."
)

// Result is what the storefront shows the payer when watching ends.
type Result struct {
	Reference string
	Outcome   Outcome
	Message   string
	Attempts  int
}

// Watcher polls a transaction until it reaches a terminal status or the
// attempt budget runs out. One Watcher is safe to reuse across transactions.
type Watcher struct {
	client      *Client
	interval    time.Duration
	maxAttempts int

	// OnUpdate, if set, is called after every poll with the latest
	// observation. It is never called after Wait returns.
	OnUpdate func(StatusResult)
}

func NewWatcher(client *Client, interval time.Duration, maxAttempts int) *Watcher {
	return &Watcher{
		client:      client,
		interval:    interval,
		maxAttempts: maxAttempts,
	}
}

// Wait polls until the transaction is terminal, the budget is exhausted, or
// ctx is cancelled. On an observed terminal status the outcome is pushed to
// the service via Confirm before returning; the push racing the server
// reconciler is harmless. A cancelled context returns ctx.Err() and nothing
// else: no callback fires and no result is produced after cancellation.
func (w *Watcher) Wait(ctx context.Context, reference string) (*Result, error) {
	for attempt := 1; attempt <= w.maxAttempts; attempt++ {
		status, err := w.client.GetStatus(ctx, reference)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if err == nil {
			if w.OnUpdate != nil {
				w.OnUpdate(*status)
			}

			switch status.NormalizedStatus {
			case "SUCCESS":
				w.confirm(ctx, reference)
				return &Result{
					Reference: reference,
					Outcome:   OutcomeSucceeded,
					Message:   msgSucceeded,
					Attempts:  attempt,
				}, nil
			case "FAILED":
				w.confirm(ctx, reference)
				return &Result{
					Reference: reference,
					Outcome:   OutcomeFailed,
					Message:   msgFailed,
					Attempts:  attempt,
				}, nil
			}
		}
		// A poll error is treated like a PENDING observation: the attempt is
		// spent and the loop continues.

		if attempt == w.maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(w.interval):
		}
	}

	return &Result{
		Reference: reference,
		Outcome:   OutcomeTimedOut,
		Message:   msgTimedOut,
		Attempts:  w.maxAttempts,
	}, nil
}

// confirm pushes the observed outcome; the server reconciler will settle
// anyway, so a failed push is not an error worth surfacing to the payer.
func (w *Watcher) confirm(ctx context.Context, reference string) {
	_, _ = w.client.Confirm(ctx, reference)
}
