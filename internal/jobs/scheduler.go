package jobs

import (
	"context"
	"fmt"
	"time"

	"contractor_connect/internal/metrics"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// OTPCleaner deletes codes that expired before the retention window
type OTPCleaner interface {
	CleanupExpired(ctx context.Context, retention time.Duration) (int64, error)
}

// VisitorCleaner forgets idle rate limiter entries
type VisitorCleaner interface {
	Cleanup(now time.Time) int
}

// Scheduler runs periodic maintenance on a cron schedule
type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration
}

// NewScheduler creates a Scheduler whose jobs each get timeout to finish
func NewScheduler(timeout time.Duration) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.Recover(cronLogger{}), cron.SkipIfStillRunning(cronLogger{}))),
		timeout: timeout,
	}
}

// AddOTPCleanup schedules removal of expired codes
func (s *Scheduler) AddOTPCleanup(spec string, cleaner OTPCleaner, retention time.Duration) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		runOTPCleanup(ctx, cleaner, retention)
	})
	if err != nil {
		return fmt.Errorf("invalid otp cleanup schedule %q: %w", spec, err)
	}
	return nil
}

// AddVisitorCleanup schedules pruning of idle rate limiter entries
func (s *Scheduler) AddVisitorCleanup(spec string, cleaner VisitorCleaner) error {
	_, err := s.cron.AddFunc(spec, func() {
		removed := cleaner.Cleanup(time.Now())
		metrics.RecordJobRun("visitor_cleanup", nil)
		if removed > 0 {
			logrus.WithField("removed", removed).Debug("Pruned idle rate limiter entries")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid visitor cleanup schedule %q: %w", spec, err)
	}
	return nil
}

func runOTPCleanup(ctx context.Context, cleaner OTPCleaner, retention time.Duration) {
	deleted, err := cleaner.CleanupExpired(ctx, retention)
	metrics.RecordJobRun("otp_cleanup", err)
	if err != nil {
		logrus.WithError(err).Error("OTP cleanup failed")
		return
	}
	logrus.WithField("deleted", deleted).Info("Expired OTP codes removed")
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs until ctx is done
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		logrus.Warn("Scheduler stopped before running jobs finished")
	}
}

type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logrus.WithFields(kvFields(keysAndValues)).Debug(msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logrus.WithError(err).WithFields(kvFields(keysAndValues)).Error(msg)
}

func kvFields(kv []interface{}) logrus.Fields {
	fields := logrus.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		fields[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return fields
}
