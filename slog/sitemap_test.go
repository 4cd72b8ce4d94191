package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/mstanek/apidex"
	"github.com/mstanek/apidex/mock"
	apidexslog "github.com/mstanek/apidex/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingSitemapService_DiscoverURLs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.SitemapService{
		DiscoverURLsFn: func(ctx context.Context, baseURL string, filter *apidex.URLFilter) ([]string, error) {
			return []string{
				"https://docs.example.com/a",
				"https://docs.example.com/b",
			}, nil
		},
	}

	svc := apidexslog.NewLoggingSitemapService(inner, logger)
	urls, err := svc.DiscoverURLs(context.Background(), "https://docs.example.com", nil)

	require.NoError(t, err)
	assert.Len(t, urls, 2)
	output := buf.String()
	assert.Contains(t, output, "sitemap discovery")
	assert.Contains(t, output, "url=https://docs.example.com")
	assert.Contains(t, output, "count=2")
	assert.Contains(t, output, "duration=")
}
