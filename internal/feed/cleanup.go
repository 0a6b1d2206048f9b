package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// ScheduleCleanup sets up a daily job removing stories older than the retention window.
func (s *Service) ScheduleCleanup(scheduler gocron.Scheduler) error {
	_, err := scheduler.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(gocron.NewAtTime(3, 0, 0)),
		),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			_ = s.Cleanup(ctx)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule story cleanup: %w", err)
	}

	scheduler.Start()
	s.logger.Info("Story cleanup scheduled", "retention", s.retention)
	return nil
}

// Cleanup removes expired stories and their media once. Failures are
// reported to the operator.
func (s *Service) Cleanup(ctx context.Context) error {
	s.logger.Info("Starting story cleanup")

	keys, err := s.stories.CleanupOldRecords(ctx, s.clock.Now().Add(-s.retention))
	if err != nil {
		s.logger.Error("Failed to clean up old stories", "error", err)
		s.notifier.Notify("Story cleanup failed: " + err.Error())
		return err
	}

	var failed []error
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := s.objects.Delete(ctx, s.bucket, key); err != nil {
			s.logger.Warn("Failed to delete story media", "key", key, "error", err)
			failed = append(failed, err)
		}
	}
	if len(failed) > 0 {
		err := fmt.Errorf("failed to delete %d of %d story media objects: %w", len(failed), len(keys), errors.Join(failed...))
		s.notifier.Notify("Story cleanup incomplete: " + err.Error())
		return err
	}

	s.logger.Info("Story cleanup completed", "rows_deleted", len(keys))
	return nil
}
