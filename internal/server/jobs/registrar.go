// Package jobs runs background work. Registrar abstracts the job runner
// so services only express schedule intent; execution details (cron
// parsing, goroutines) live in the implementation.
package jobs

import "context"

// Registrar manages recurring and one-off background invocations.
type Registrar interface {
	// AddOrUpdate registers job under jobID with the given cron
	// expression, replacing any previous registration with the same id.
	// Returns an error when the expression does not parse.
	AddOrUpdate(jobID string, cronExpression string, job func(ctx context.Context)) error

	// RemoveIfExists deregisters jobID. Removing an unknown id is a
	// no-op.
	RemoveIfExists(jobID string)

	// Enqueue fires one immediate out-of-band invocation of job,
	// independent of any recurring schedule.
	Enqueue(job func(ctx context.Context))
}
