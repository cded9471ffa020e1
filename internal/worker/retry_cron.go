package worker

// retry_cron.go
// Background goroutine that periodically redrives receipt jobs out of the DLQ
// once the SMTP circuit breaker has recovered. Jobs that already went through
// a redrive cycle stay parked for manual inspection.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/artmorais77/backend-orise/internal/infra"
)

const (
	redriveTickInterval = 30 * time.Second
	redriveBatchSize    = 10
	maxRedriveAttempts  = 6 // 3 initial + 3 redriven
)

// RetryCronConfig holds all dependencies for the redrive goroutine.
type RetryCronConfig struct {
	RDB *redis.Client
	CB  *infra.CircuitBreaker
}

// StartRetryCron launches a background goroutine that ticks every 30s and,
// while the circuit breaker is closed, moves DLQ'd receipt jobs back onto the
// work queue. It respects the context for graceful shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	go func() {
		ticker := time.NewTicker(redriveTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				redriveDLQ(ctx, cfg)
			}
		}
	}()
}

func redriveDLQ(ctx context.Context, cfg RetryCronConfig) {
	// If CB is not fully closed, skip entirely — don't feed jobs into a
	// relay that is still down or being probed.
	if cfg.CB.State() != infra.CBClosed {
		log.Debug().Msg("retry_cron: circuit breaker not closed, skipping tick")
		return
	}

	dlqKey := DLQPrefix + QueueReceipts
	for i := 0; i < redriveBatchSize; i++ {
		raw, err := cfg.RDB.RPop(ctx, dlqKey).Result()
		if err != nil {
			return // empty DLQ or connection issue
		}

		var entry DLQEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			log.Error().Err(err).Msg("retry_cron: corrupt DLQ entry, dropping")
			continue
		}

		if entry.Attempts >= maxRedriveAttempts {
			// Exhausted: park it at the head, away from the RPop end, so it
			// cannot shadow newer entries that are still eligible.
			_ = cfg.RDB.LPush(ctx, dlqKey, raw).Err()
			log.Warn().
				Str("job_type", entry.JobType).
				Int("attempts", entry.Attempts).
				Msg("retry_cron: entry exceeded redrive limit, leaving in DLQ")
			continue
		}

		job := Job{Type: entry.JobType, Payload: entry.Payload, Attempts: entry.Attempts}
		encoded, err := json.Marshal(job)
		if err != nil {
			log.Error().Err(err).Msg("retry_cron: failed to re-encode job")
			continue
		}
		if err := cfg.RDB.LPush(ctx, entry.OriginalQueue, encoded).Err(); err != nil {
			// Put it back so the entry is not lost
			_ = cfg.RDB.RPush(ctx, dlqKey, raw).Err()
			log.Error().Err(err).Msg("retry_cron: failed to redrive, entry returned to DLQ")
			return
		}

		log.Info().
			Str("queue", entry.OriginalQueue).
			Str("job_type", entry.JobType).
			Int("attempts", entry.Attempts).
			Msg("retry_cron: job redriven from DLQ")
	}
}
