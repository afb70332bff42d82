// Package jobs runs periodic maintenance on the ledger database.
package jobs

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/erazemk/maskarada/internal/store"
)

// Schedules holds cron specs for each job. An empty spec disables the job.
type Schedules struct {
	TokenPurge  string
	LedgerAudit string
}

// DefaultSchedules purges tokens hourly and audits the ledger every 15 minutes.
func DefaultSchedules() Schedules {
	return Schedules{
		TokenPurge:  "@hourly",
		LedgerAudit: "@every 15m",
	}
}

// Scheduler owns the cron runner and the jobs it triggers.
type Scheduler struct {
	db   *sql.DB
	log  *zap.Logger
	cron *cron.Cron
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}

// New registers the jobs. It fails on an invalid schedule.
func New(db *sql.DB, log *zap.Logger, sched Schedules) (*Scheduler, error) {
	cl := cronLogger{s: log.Sugar()}
	s := &Scheduler{
		db:   db,
		log:  log,
		cron: cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl))),
	}

	jobs := []struct {
		name string
		spec string
		run  func(context.Context) error
	}{
		{"token_purge", sched.TokenPurge, s.PurgeTokens},
		{"ledger_audit", sched.LedgerAudit, s.AuditLedger},
	}
	for _, j := range jobs {
		if j.spec == "" {
			continue
		}
		if _, err := s.cron.AddFunc(j.spec, s.wrap(j.name, j.run)); err != nil {
			return nil, fmt.Errorf("scheduling %s job %q: %w", j.name, j.spec, err)
		}
		log.Info("scheduled job", zap.String("job", j.name), zap.String("schedule", j.spec))
	}
	return s, nil
}

func (s *Scheduler) wrap(name string, run func(context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		start := time.Now()
		if err := run(ctx); err != nil {
			s.log.Error("job failed", zap.String("job", name), zap.Error(err))
			return
		}
		s.log.Debug("job finished", zap.String("job", name), zap.Duration("took", time.Since(start)))
	}
}

// Run starts the scheduler and blocks until ctx is cancelled, then waits for
// running jobs to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	s.cron.Start()
	<-ctx.Done()
	<-s.cron.Stop().Done()
	return nil
}

// PurgeTokens removes revocations of tokens that have expired anyway.
func (s *Scheduler) PurgeTokens(ctx context.Context) error {
	n, err := store.PurgeRevokedTokens(ctx, s.db, time.Now())
	if err != nil {
		return err
	}
	if n > 0 {
		s.log.Info("purged revoked tokens", zap.Int64("count", n))
	}
	return nil
}

// AuditLedger checks that the money in all accounts equals the money ever
// credited. Transfers only move money, so any difference means the ledger
// was changed outside the transfer and credit operations.
func (s *Scheduler) AuditLedger(ctx context.Context) error {
	balances, credits, err := store.LedgerTotals(ctx, s.db)
	if err != nil {
		return err
	}
	if balances != credits {
		return fmt.Errorf("ledger out of balance: accounts hold %d, credits total %d", balances, credits)
	}
	s.log.Debug("ledger balanced", zap.Int64("total", balances))
	return nil
}
