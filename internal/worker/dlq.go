package worker

// dlq.go
// Receipt jobs that exhaust their SMTP retries are parked here instead of
// being dropped: the sale is already committed, so the receipt must survive
// until the relay recovers or an operator steps in. One Redis list per source
// queue, keyed dlq:{queue}; the retry cron drains it once the circuit breaker
// closes again.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DLQPrefix = "dlq:"

func dlqKey(queue string) string { return DLQPrefix + queue }

// DLQEntry is a parked job plus enough context to decide whether it may be
// redriven: the queue it came from, why it failed, and the cumulative
// delivery-attempt count across redrive cycles.
type DLQEntry struct {
	OriginalQueue string          `json:"original_queue"`
	JobType       string          `json:"job_type"`
	Payload       json.RawMessage `json:"payload"`
	Reason        string          `json:"reason"`
	FailedAt      string          `json:"failed_at"` // RFC 3339, UTC
	Attempts      int             `json:"attempts"`
}

// SendToDLQ parks a failed job. Attempts must carry the total count so far,
// not just this delivery's, or the redrive limit cannot hold across cycles.
func SendToDLQ(ctx context.Context, rdb *redis.Client, queue, jobType string, payload json.RawMessage, reason string, attempts int) {
	entry := DLQEntry{
		OriginalQueue: queue,
		JobType:       jobType,
		Payload:       payload,
		Reason:        reason,
		FailedAt:      time.Now().UTC().Format(time.RFC3339),
		Attempts:      attempts,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: failed to marshal entry")
		return
	}
	if err := rdb.LPush(ctx, dlqKey(queue), data).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: failed to park entry")
		return
	}

	log.Warn().
		Str("queue", queue).
		Str("job_type", jobType).
		Str("reason", reason).
		Int("attempts", attempts).
		Msg("dlq: job parked in dead letter queue")
}

// DLQLength reports how many jobs are parked for a queue. Surfaced by the
// health endpoint so a growing backlog is visible before anyone complains
// about missing receipts.
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, dlqKey(queue)).Result()
}
