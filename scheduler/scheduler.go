// Package scheduler runs maintenance jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	cronlib "github.com/robfig/cron/v3"
)

// parser accepts standard five-field expressions plus descriptors such as
// "@daily" and "@every 6h".
var parser = cronlib.NewParser(cronlib.Minute | cronlib.Hour | cronlib.Dom | cronlib.Month | cronlib.Dow | cronlib.Descriptor)

// Validate reports whether spec is an accepted schedule expression.
func Validate(spec string) error {
	if _, err := parser.Parse(spec); err != nil {
		return fmt.Errorf("scheduler: invalid schedule %q: %w", spec, err)
	}
	return nil
}

// Scheduler runs one job on a schedule. A run that is still going when the
// next tick fires causes that tick to be skipped.
type Scheduler struct {
	cron   *cronlib.Cron
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a Scheduler that calls job on spec. Call Start to begin.
func New(spec string, job func(ctx context.Context)) (*Scheduler, error) {
	if err := Validate(spec); err != nil {
		return nil, err
	}
	logger := slogLogger{}
	ctx, cancel := context.WithCancel(context.Background())
	c := cronlib.New(
		cronlib.WithParser(parser),
		cronlib.WithLogger(logger),
		cronlib.WithChain(cronlib.Recover(logger), cronlib.SkipIfStillRunning(logger)),
	)
	if _, err := c.AddFunc(spec, func() { job(ctx) }); err != nil {
		cancel()
		return nil, fmt.Errorf("scheduler: add job: %w", err)
	}
	return &Scheduler{cron: c, ctx: ctx, cancel: cancel}, nil
}

// Start begins running the schedule in the background.
func (s *Scheduler) Start() { s.cron.Start() }

// Stop cancels the running job's context and waits for it to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
}

// slogLogger adapts slog to the cron logger interface.
type slogLogger struct{}

func (slogLogger) Info(msg string, keysAndValues ...interface{}) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (slogLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	slog.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
