package sqlite_test

import (
	"context"
	"testing"

	"github.com/mstanek/apidex"
	"github.com/mstanek/apidex/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuirkService_CreateQuirk(t *testing.T) {
	t.Parallel()

	t.Run("stores quirk with defaulted origin", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		api := mustCreateAPI(t, db, "stripe")
		svc := sqlite.NewQuirkService(db)
		ctx := context.Background()

		quirk := &apidex.Quirk{
			APIID:       api.ID,
			Field:       "amount",
			Category:    apidex.QuirkCurrencyMinorUnits,
			Severity:    apidex.SeverityWarning,
			Description: "amounts are integer cents, not decimal dollars",
			Example:     `"amount": 2000`,
		}
		require.NoError(t, svc.CreateQuirk(ctx, quirk))
		assert.Equal(t, apidex.DetectedManual, quirk.DetectedBy)

		quirks, err := svc.FindQuirks(ctx, apidex.QuirkFilter{APIID: &api.ID})
		require.NoError(t, err)
		require.Len(t, quirks, 1)
		assert.Equal(t, apidex.QuirkCurrencyMinorUnits, quirks[0].Category)
		assert.Empty(t, quirks[0].EndpointID, "endpoint is optional")
	})

	t.Run("stores endpoint-scoped quirk", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		api := mustCreateAPI(t, db, "stripe")
		ctx := context.Background()

		endpoint := &apidex.Endpoint{APIID: api.ID, Method: "POST", Path: "/v1/charges"}
		require.NoError(t, sqlite.NewEndpointService(db).CreateEndpoint(ctx, endpoint))

		svc := sqlite.NewQuirkService(db)
		require.NoError(t, svc.CreateQuirk(ctx, &apidex.Quirk{
			APIID:       api.ID,
			EndpointID:  endpoint.ID,
			Field:       "created",
			Category:    apidex.QuirkEpochTimestamp,
			Severity:    apidex.SeverityInfo,
			Description: "created is a unix epoch integer",
		}))

		quirks, err := svc.FindQuirks(ctx, apidex.QuirkFilter{EndpointID: &endpoint.ID})
		require.NoError(t, err)
		require.Len(t, quirks, 1)
		assert.Equal(t, endpoint.ID, quirks[0].EndpointID)
	})
}

func TestQuirkService_FindQuirks_FilterByCategoryAndSeverity(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	api := mustCreateAPI(t, db, "stripe")
	svc := sqlite.NewQuirkService(db)
	ctx := context.Background()

	for _, q := range []*apidex.Quirk{
		{APIID: api.ID, Category: apidex.QuirkPagination, Severity: apidex.SeverityInfo, Description: "cursor pagination"},
		{APIID: api.ID, Category: apidex.QuirkRateLimit, Severity: apidex.SeverityCritical, Description: "100 rps hard cap"},
	} {
		require.NoError(t, svc.CreateQuirk(ctx, q))
	}

	critical := apidex.SeverityCritical
	quirks, err := svc.FindQuirks(ctx, apidex.QuirkFilter{Severity: &critical})
	require.NoError(t, err)
	require.Len(t, quirks, 1)
	assert.Equal(t, apidex.QuirkRateLimit, quirks[0].Category)
}

func TestQuirkService_DeleteQuirk(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	err := sqlite.NewQuirkService(db).DeleteQuirk(context.Background(), "missing")
	assert.Equal(t, apidex.ENOTFOUND, apidex.ErrorCode(err))
}
