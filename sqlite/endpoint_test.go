package sqlite_test

import (
	"context"
	"testing"

	"github.com/mstanek/apidex"
	"github.com/mstanek/apidex/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpointService_CreateEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("stores endpoint with parameters transactionally", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		api := mustCreateAPI(t, db, "stripe")
		svc := sqlite.NewEndpointService(db)
		ctx := context.Background()

		endpoint := &apidex.Endpoint{
			APIID:   api.ID,
			Method:  "POST",
			Path:    "/v1/charges",
			Summary: "Create a charge",
			Parameters: []*apidex.Parameter{
				{Name: "amount", Location: apidex.InBody, Type: apidex.TypeInteger, Required: true, Example: "2000"},
				{Name: "currency", Location: apidex.InBody, Type: apidex.TypeString, Required: true, Example: "usd"},
			},
		}

		require.NoError(t, svc.CreateEndpoint(ctx, endpoint))
		assert.NotEmpty(t, endpoint.ID)

		found, err := svc.FindEndpointByID(ctx, endpoint.ID)
		require.NoError(t, err)
		require.Len(t, found.Parameters, 2)
		assert.Equal(t, "amount", found.Parameters[0].Name)
		assert.True(t, found.Parameters[0].Required)
	})

	t.Run("returns ECONFLICT for duplicate method+path", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		api := mustCreateAPI(t, db, "stripe")
		svc := sqlite.NewEndpointService(db)
		ctx := context.Background()

		e := func() *apidex.Endpoint {
			return &apidex.Endpoint{APIID: api.ID, Method: "GET", Path: "/v1/charges"}
		}
		require.NoError(t, svc.CreateEndpoint(ctx, e()))

		err := svc.CreateEndpoint(ctx, e())
		require.Error(t, err)
		assert.Equal(t, apidex.ECONFLICT, apidex.ErrorCode(err))
	})

	t.Run("duplicate parameter rolls back the endpoint", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		api := mustCreateAPI(t, db, "stripe")
		svc := sqlite.NewEndpointService(db)
		ctx := context.Background()

		endpoint := &apidex.Endpoint{
			APIID:  api.ID,
			Method: "GET",
			Path:   "/v1/refunds",
			Parameters: []*apidex.Parameter{
				{Name: "limit", Location: apidex.InQuery},
				{Name: "limit", Location: apidex.InQuery},
			},
		}

		err := svc.CreateEndpoint(ctx, endpoint)
		require.Error(t, err)
		assert.Equal(t, apidex.ECONFLICT, apidex.ErrorCode(err))

		endpoints, err := svc.FindEndpoints(ctx, apidex.EndpointFilter{APIID: &api.ID})
		require.NoError(t, err)
		assert.Empty(t, endpoints, "endpoint insert should have been rolled back")
	})
}

func TestEndpointService_FindEndpoints(t *testing.T) {
	t.Parallel()

	t.Run("filters by method and path substring", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		api := mustCreateAPI(t, db, "stripe")
		svc := sqlite.NewEndpointService(db)
		ctx := context.Background()

		for _, spec := range []struct{ method, path string }{
			{"GET", "/v1/charges"},
			{"POST", "/v1/charges"},
			{"GET", "/v1/customers"},
		} {
			require.NoError(t, svc.CreateEndpoint(ctx, &apidex.Endpoint{
				APIID: api.ID, Method: spec.method, Path: spec.path,
			}))
		}

		method := "GET"
		contains := "charges"
		endpoints, err := svc.FindEndpoints(ctx, apidex.EndpointFilter{
			APIID: &api.ID, Method: &method, PathContains: &contains,
		})
		require.NoError(t, err)
		require.Len(t, endpoints, 1)
		assert.Equal(t, "/v1/charges", endpoints[0].Path)
	})

	t.Run("orders by path then method", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		api := mustCreateAPI(t, db, "stripe")
		svc := sqlite.NewEndpointService(db)
		ctx := context.Background()

		for _, spec := range []struct{ method, path string }{
			{"POST", "/v1/b"},
			{"GET", "/v1/b"},
			{"GET", "/v1/a"},
		} {
			require.NoError(t, svc.CreateEndpoint(ctx, &apidex.Endpoint{
				APIID: api.ID, Method: spec.method, Path: spec.path,
			}))
		}

		endpoints, err := svc.FindEndpoints(ctx, apidex.EndpointFilter{APIID: &api.ID})
		require.NoError(t, err)
		require.Len(t, endpoints, 3)
		assert.Equal(t, "/v1/a", endpoints[0].Path)
		assert.Equal(t, "GET", endpoints[1].Method)
		assert.Equal(t, "POST", endpoints[2].Method)
	})
}

func TestEndpointService_FindEndpointByID_NotFound(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	_, err := sqlite.NewEndpointService(db).FindEndpointByID(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, apidex.ENOTFOUND, apidex.ErrorCode(err))
}

func TestEndpointService_DeleteEndpointsByAPI(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	api := mustCreateAPI(t, db, "stripe")
	svc := sqlite.NewEndpointService(db)
	ctx := context.Background()

	require.NoError(t, svc.CreateEndpoint(ctx, &apidex.Endpoint{
		APIID: api.ID, Method: "GET", Path: "/v1/charges",
		Parameters: []*apidex.Parameter{{Name: "limit", Location: apidex.InQuery}},
	}))

	require.NoError(t, svc.DeleteEndpointsByAPI(ctx, api.ID))

	endpoints, err := svc.FindEndpoints(ctx, apidex.EndpointFilter{APIID: &api.ID})
	require.NoError(t, err)
	assert.Empty(t, endpoints)
}
