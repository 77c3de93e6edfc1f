package jobs

import (
	"context"
	"sync"

	"github.com/robfig/cron/v3"
)

// CronRegistrar implements Registrar with an in-process cron scheduler.
// Jobs run on the base context given at construction, which the app
// cancels on shutdown.
type CronRegistrar struct {
	mu      sync.Mutex
	cron    *cron.Cron
	entries map[string]cron.EntryID
	baseCtx context.Context
}

// NewCronRegistrar constructs a registrar and starts its scheduler loop.
func NewCronRegistrar(baseCtx context.Context) *CronRegistrar {
	c := cron.New()
	c.Start()
	return &CronRegistrar{
		cron:    c,
		entries: make(map[string]cron.EntryID),
		baseCtx: baseCtx,
	}
}

// AddOrUpdate registers job under jobID, replacing any prior entry.
func (r *CronRegistrar) AddOrUpdate(jobID string, cronExpression string, job func(ctx context.Context)) error {
	schedule, err := cron.ParseStandard(cronExpression)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.entries[jobID]; ok {
		r.cron.Remove(id)
	}
	r.entries[jobID] = r.cron.Schedule(schedule, cron.FuncJob(func() {
		job(r.baseCtx)
	}))
	return nil
}

// RemoveIfExists deregisters jobID if present.
func (r *CronRegistrar) RemoveIfExists(jobID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.entries[jobID]; ok {
		r.cron.Remove(id)
		delete(r.entries, jobID)
	}
}

// Enqueue runs job once, immediately, on its own goroutine.
func (r *CronRegistrar) Enqueue(job func(ctx context.Context)) {
	go job(r.baseCtx)
}

// Stop halts the scheduler loop. Running jobs finish on their own.
func (r *CronRegistrar) Stop() {
	r.cron.Stop()
}
