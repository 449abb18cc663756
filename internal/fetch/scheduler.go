package fetch

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

var cronParser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// StartAutoFetchScheduler runs fn on a 5-field cron schedule in loc until
// ctx is cancelled. It returns an error only if the schedule fails to parse.
func StartAutoFetchScheduler(ctx context.Context, schedule string, loc *time.Location, fn func(context.Context)) error {
	sched, err := cronParser.Parse(schedule)
	if err != nil {
		return fmt.Errorf("invalid auto_fetch_schedule %q: %w", schedule, err)
	}
	if loc == nil {
		loc = time.UTC
	}

	go func() {
		for {
			now := time.Now().In(loc)
			next := sched.Next(now)
			log.Printf("auto-fetch next run at %s", next.Format(time.RFC3339))

			timer := time.NewTimer(next.Sub(now))
			select {
			case <-ctx.Done():
				timer.Stop()
				log.Printf("auto-fetch scheduler stopped")
				return
			case <-timer.C:
				fn(ctx)
			}
		}
	}()
	return nil
}
