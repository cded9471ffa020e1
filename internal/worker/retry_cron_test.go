//go:build integration

package worker

// Redrive tests against a real Redis via testcontainers.
// Run with: go test -tags integration ./internal/worker/... -v

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/artmorais77/backend-orise/internal/infra"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(rdURL)
	require.NoError(t, err)
	return rdb
}

func TestRedriveSkipsExhaustedEntries(t *testing.T) {
	ctx := context.Background()
	rdb := setupRedis(t)

	cb := infra.NewCircuitBreaker(infra.DefaultCBConfig())

	// Oldest entry in the DLQ is already out of redrives; a newer one behind
	// it is still eligible. The exhausted entry must not shadow the eligible
	// one at the consuming end of the list.
	SendToDLQ(ctx, rdb, QueueReceipts, "receipt", json.RawMessage(`{"sale_id":"dead"}`), "smtp down", maxRedriveAttempts)
	SendToDLQ(ctx, rdb, QueueReceipts, "receipt", json.RawMessage(`{"sale_id":"alive"}`), "smtp down", 3)

	redriveDLQ(ctx, RetryCronConfig{RDB: rdb, CB: cb})

	// Eligible entry is back on the work queue with its attempt count intact
	queued, err := rdb.LRange(ctx, QueueReceipts, 0, -1).Result()
	require.NoError(t, err)
	require.Len(t, queued, 1)
	var job Job
	require.NoError(t, json.Unmarshal([]byte(queued[0]), &job))
	assert.Equal(t, "receipt", job.Type)
	assert.Equal(t, 3, job.Attempts)
	assert.JSONEq(t, `{"sale_id":"alive"}`, string(job.Payload))

	// Exhausted entry stays parked in the DLQ
	parked, err := DLQLength(ctx, rdb, QueueReceipts)
	require.NoError(t, err)
	require.EqualValues(t, 1, parked)

	raw, err := rdb.LIndex(ctx, DLQPrefix+QueueReceipts, 0).Result()
	require.NoError(t, err)
	var entry DLQEntry
	require.NoError(t, json.Unmarshal([]byte(raw), &entry))
	assert.Equal(t, maxRedriveAttempts, entry.Attempts)
}

func TestRedriveWaitsForClosedBreaker(t *testing.T) {
	ctx := context.Background()
	rdb := setupRedis(t)

	// Trip the breaker open; no entry may be redriven into a dead relay
	cb := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	for i := 0; i < 5; i++ {
		_ = cb.Execute(func() error { return errors.New("smtp down") })
	}
	require.NotEqual(t, infra.CBClosed, cb.State())

	SendToDLQ(ctx, rdb, QueueReceipts, "receipt", json.RawMessage(`{"sale_id":"waiting"}`), "smtp down", 3)

	redriveDLQ(ctx, RetryCronConfig{RDB: rdb, CB: cb})

	n, err := rdb.LLen(ctx, QueueReceipts).Result()
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	parked, err := DLQLength(ctx, rdb, QueueReceipts)
	require.NoError(t, err)
	assert.EqualValues(t, 1, parked)
}
