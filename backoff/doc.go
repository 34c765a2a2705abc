// Package backoff provides a small retry executor with constant or exponential
// backoff for handling transient failures in fallible operations.
//
// The package supports:
//   - Constant or exponential delay growth between attempts
//   - A bounded attempt budget per execution
//   - Context-aware delays with cancellation support
//   - Observable status and last error, plus a status and event channel
//   - Optional logging of retry attempts
//
// Basic Usage:
//
//	executor, err := backoff.NewExecutor(func(ctx context.Context) error {
//	    // Your retryable operation here
//	    return makeAPICall(ctx)
//	}, backoff.Policy{
//	    Mode:         backoff.ModeExponential,
//	    InitialDelay: time.Second,
//	    MaxAttempts:  3,
//	})
//	if err != nil {
//	    // invalid policy or nil operation
//	}
//
//	if err := executor.Execute(ctx); err != nil {
//	    // all attempts exhausted, err is the last attempt's error
//	}
//
// Configuration:
//
// The Policy struct controls retry behavior:
//   - Mode: ModeConstant keeps the delay fixed, ModeExponential doubles it
//     after each failed attempt (default: ModeConstant)
//   - InitialDelay: delay before the first retry, must be positive
//   - MaxAttempts: total invocations per Execute call (default: 3)
//
// With ModeExponential the first retry waits InitialDelay, the second waits
// 2x InitialDelay, the third 4x, and so on. There is no delay cap and no
// jitter.
//
// Status:
//
// The executor exposes its state through Status and LastError. Status moves
// from StatusIdle to StatusRunning when Execute is called, back to StatusIdle
// on success, and to StatusFailed once the attempt budget is exhausted.
// Intermediate failures never surface; only the last error of an exhausted
// execution is recorded and returned.
//
// Context Support:
//
// Execute respects context cancellation while a retry delay is pending and
// will not run further attempts once the context is done. In-flight operation
// calls are not forcibly aborted; the operation receives the context and must
// observe it if it needs to stop mid-flight.
package backoff
