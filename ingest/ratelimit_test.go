package ingest_test

import (
	"context"
	"testing"
	"time"

	"github.com/mstanek/apidex/ingest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainLimiter_allows_first_request_immediately(t *testing.T) {
	t.Parallel()

	limiter := ingest.NewDomainLimiter(1)

	start := time.Now()
	err := limiter.Wait(context.Background(), "docs.example.com")

	require.NoError(t, err)
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestDomainLimiter_limits_per_domain_independently(t *testing.T) {
	t.Parallel()

	limiter := ingest.NewDomainLimiter(1)

	// First request to each domain should not block.
	start := time.Now()
	require.NoError(t, limiter.Wait(context.Background(), "a.example.com"))
	require.NoError(t, limiter.Wait(context.Background(), "b.example.com"))
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestDomainLimiter_delays_subsequent_requests(t *testing.T) {
	t.Parallel()

	limiter := ingest.NewDomainLimiter(10) // 100ms between requests

	require.NoError(t, limiter.Wait(context.Background(), "docs.example.com"))

	start := time.Now()
	require.NoError(t, limiter.Wait(context.Background(), "docs.example.com"))
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestDomainLimiter_respects_context_cancellation(t *testing.T) {
	t.Parallel()

	limiter := ingest.NewDomainLimiter(0.001) // effectively never refills

	require.NoError(t, limiter.Wait(context.Background(), "docs.example.com"))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := limiter.Wait(ctx, "docs.example.com")
	require.Error(t, err)
}
