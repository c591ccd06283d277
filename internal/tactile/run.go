package tactile

import (
	"context"
	"errors"
	"fmt"

	"artifactplan/internal/logging"
	"artifactplan/internal/planerr"
)

// Run executes cmd and insists on a clean exit. Spawn failures, timeouts,
// cancellation, non-zero exits and truncated output all come back as a
// *planerr.ProcessError carrying whatever output was captured.
func Run(ctx context.Context, executor Executor, cmd Command) (*ExecutionResult, error) {
	result, err := executor.Execute(ctx, cmd)
	if err != nil {
		return nil, &planerr.ProcessError{Command: cmd.CommandString(), ExitCode: -1, Err: err}
	}

	procErr := &planerr.ProcessError{
		Command:  cmd.CommandString(),
		ExitCode: result.ExitCode,
		Stdout:   result.Stdout,
		Stderr:   result.Stderr,
	}

	switch {
	case result.IsError():
		procErr.Err = errors.New(result.Error)
	case result.Killed:
		if ctxErr := ctx.Err(); ctxErr != nil {
			procErr.Err = fmt.Errorf("killed: %s: %w", result.KillReason, ctxErr)
		} else {
			procErr.Err = fmt.Errorf("killed: %s", result.KillReason)
		}
	case result.IsNonZeroExit():
		// Err stays nil; the exit status is the failure.
	case result.Truncated:
		procErr.Err = fmt.Errorf("output truncated, %d bytes discarded", result.TruncatedBytes)
	default:
		return result, nil
	}

	logging.TactileWarn("[%s] %s failed (exit=%d), output:\n%s",
		cmd.RequestID, procErr.Command, result.ExitCode, result.Output())
	return result, procErr
}
