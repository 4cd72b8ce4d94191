package sqlite_test

import (
	"context"
	"testing"

	"github.com/mstanek/apidex"
	"github.com/mstanek/apidex/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIService_CreateAPI(t *testing.T) {
	t.Parallel()

	t.Run("creates api with generated ID and timestamps", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewAPIService(db)
		ctx := context.Background()

		api := &apidex.API{
			Name:     "stripe",
			DocsURL:  "https://docs.stripe.com",
			AuthType: apidex.AuthBearer,
		}

		require.NoError(t, svc.CreateAPI(ctx, api))

		assert.NotEmpty(t, api.ID, "ID should be generated")
		assert.False(t, api.CreatedAt.IsZero(), "CreatedAt should be set")
		assert.Equal(t, apidex.APIActive, api.Status, "status defaults to active")
		assert.Equal(t, apidex.PricingPerCall, api.PricingModel, "pricing defaults to per_call")
	})

	t.Run("returns ECONFLICT for duplicate name", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewAPIService(db)
		ctx := context.Background()

		mustCreateAPI(t, db, "stripe")
		err := svc.CreateAPI(ctx, &apidex.API{
			Name:     "stripe",
			DocsURL:  "https://docs.stripe.com",
			AuthType: apidex.AuthBearer,
		})
		require.Error(t, err)
		assert.Equal(t, apidex.ECONFLICT, apidex.ErrorCode(err))
	})

	t.Run("returns error for invalid api", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		err := sqlite.NewAPIService(db).CreateAPI(context.Background(), &apidex.API{})
		require.Error(t, err)
		assert.Equal(t, apidex.EINVALID, apidex.ErrorCode(err))
	})
}

func TestAPIService_FindAPIByName(t *testing.T) {
	t.Parallel()

	t.Run("returns api when found", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewAPIService(db)
		created := mustCreateAPI(t, db, "twilio")

		found, err := svc.FindAPIByName(context.Background(), "twilio")
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
		assert.Equal(t, apidex.AuthBearer, found.AuthType)
	})

	t.Run("returns ENOTFOUND when missing", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		_, err := sqlite.NewAPIService(db).FindAPIByName(context.Background(), "nope")
		require.Error(t, err)
		assert.Equal(t, apidex.ENOTFOUND, apidex.ErrorCode(err))
	})
}

func TestAPIService_FindAPIs(t *testing.T) {
	t.Parallel()

	t.Run("filters by status", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewAPIService(db)
		ctx := context.Background()

		mustCreateAPI(t, db, "alpha")
		deprecated := mustCreateAPI(t, db, "beta")
		status := apidex.APIDeprecated
		_, err := svc.UpdateAPI(ctx, deprecated.ID, apidex.APIUpdate{Status: &status})
		require.NoError(t, err)

		active := apidex.APIActive
		apis, err := svc.FindAPIs(ctx, apidex.APIFilter{Status: &active})
		require.NoError(t, err)
		require.Len(t, apis, 1)
		assert.Equal(t, "alpha", apis[0].Name)
	})

	t.Run("orders by name and paginates", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewAPIService(db)
		ctx := context.Background()

		for _, name := range []string{"charlie", "alpha", "bravo"} {
			mustCreateAPI(t, db, name)
		}

		apis, err := svc.FindAPIs(ctx, apidex.APIFilter{Limit: 2, Offset: 1})
		require.NoError(t, err)
		require.Len(t, apis, 2)
		assert.Equal(t, "bravo", apis[0].Name)
		assert.Equal(t, "charlie", apis[1].Name)
	})
}

func TestAPIService_UpdateAPI(t *testing.T) {
	t.Parallel()

	t.Run("updates fields", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewAPIService(db)
		ctx := context.Background()

		api := mustCreateAPI(t, db, "sendgrid")
		notes := "prefers form-encoded bodies"
		updated, err := svc.UpdateAPI(ctx, api.ID, apidex.APIUpdate{Notes: &notes})
		require.NoError(t, err)
		assert.Equal(t, notes, updated.Notes)
		assert.True(t, updated.UpdatedAt.After(updated.CreatedAt) || updated.UpdatedAt.Equal(updated.CreatedAt))
	})

	t.Run("returns ENOTFOUND for missing api", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		name := "x"
		_, err := sqlite.NewAPIService(db).UpdateAPI(context.Background(), "missing", apidex.APIUpdate{Name: &name})
		require.Error(t, err)
		assert.Equal(t, apidex.ENOTFOUND, apidex.ErrorCode(err))
	})
}

func TestAPIService_DeleteAPI(t *testing.T) {
	t.Parallel()

	t.Run("cascades to dependent rows", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()
		api := mustCreateAPI(t, db, "stripe")

		endpoints := sqlite.NewEndpointService(db)
		require.NoError(t, endpoints.CreateEndpoint(ctx, &apidex.Endpoint{
			APIID:  api.ID,
			Method: "GET",
			Path:   "/v1/charges",
		}))

		quirks := sqlite.NewQuirkService(db)
		require.NoError(t, quirks.CreateQuirk(ctx, &apidex.Quirk{
			APIID:       api.ID,
			Field:       "amount",
			Category:    apidex.QuirkCurrencyMinorUnits,
			Severity:    apidex.SeverityWarning,
			Description: "integer cents",
		}))

		require.NoError(t, sqlite.NewAPIService(db).DeleteAPI(ctx, api.ID))

		remaining, err := endpoints.FindEndpoints(ctx, apidex.EndpointFilter{APIID: &api.ID})
		require.NoError(t, err)
		assert.Empty(t, remaining)

		qs, err := quirks.FindQuirks(ctx, apidex.QuirkFilter{APIID: &api.ID})
		require.NoError(t, err)
		assert.Empty(t, qs)
	})

	t.Run("returns ENOTFOUND when missing", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		err := sqlite.NewAPIService(db).DeleteAPI(context.Background(), "missing")
		require.Error(t, err)
		assert.Equal(t, apidex.ENOTFOUND, apidex.ErrorCode(err))
	})
}
