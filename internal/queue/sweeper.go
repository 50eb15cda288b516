package queue

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// StartStaleJobSweeper schedules Queue.CleanupStaleJobs on a cron
// spec, reclaiming jobs whose worker died mid-processing without ever
// completing or requeuing them. Returns the running *cron.Cron so the
// caller can Stop() it on shutdown.
func StartStaleJobSweeper(q *Queue, cronSpec string, staleAfter time.Duration) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(cronSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		cleaned, err := q.CleanupStaleJobs(ctx, staleAfter)
		if err != nil {
			log.Printf("[sweeper] cleanup failed: %v", err)
			return
		}
		if cleaned > 0 {
			log.Printf("[sweeper] reclaimed %d stale job(s)", cleaned)
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
