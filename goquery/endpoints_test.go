package goquery_test

import (
	"testing"

	"github.com/mstanek/apidex"
	apidexquery "github.com/mstanek/apidex/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpointExtractor_ExtractEndpoints(t *testing.T) {
	t.Parallel()

	t.Run("finds method and path in headings", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<h2>POST /v1/charges</h2>
			<p>Creates a charge.</p>
			<h2>GET /v1/charges/{id}</h2>
		</body></html>`

		extractor := apidexquery.NewEndpointExtractor()
		endpoints, err := extractor.ExtractEndpoints(html)
		require.NoError(t, err)

		require.Len(t, endpoints, 2)
		assert.Equal(t, "POST", endpoints[0].Method)
		assert.Equal(t, "/v1/charges", endpoints[0].Path)
		assert.Equal(t, "GET", endpoints[1].Method)
		assert.Equal(t, "/v1/charges/{id}", endpoints[1].Path)
	})

	t.Run("finds declarations in code blocks with heading as summary", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<h3>Create a charge</h3>
			<pre><code>POST /v1/charges</code></pre>
		</body></html>`

		extractor := apidexquery.NewEndpointExtractor()
		endpoints, err := extractor.ExtractEndpoints(html)
		require.NoError(t, err)

		require.Len(t, endpoints, 1)
		assert.Equal(t, "POST", endpoints[0].Method)
		assert.Equal(t, "Create a charge", endpoints[0].Summary)
	})

	t.Run("deduplicates by method and path", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<h2>GET /v1/balance</h2>
			<pre>GET /v1/balance</pre>
		</body></html>`

		extractor := apidexquery.NewEndpointExtractor()
		endpoints, err := extractor.ExtractEndpoints(html)
		require.NoError(t, err)
		assert.Len(t, endpoints, 1)
	})

	t.Run("associates parameter tables with preceding endpoint", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<h2>GET /v1/charges/{id}</h2>
			<table>
				<tr><th>Name</th><th>Type</th><th>In</th><th>Required</th><th>Description</th></tr>
				<tr><td>id</td><td>string</td><td>path</td><td>yes</td><td>Charge identifier</td></tr>
				<tr><td>expand</td><td>array</td><td>query</td><td>no</td><td>Fields to expand</td></tr>
			</table>
		</body></html>`

		extractor := apidexquery.NewEndpointExtractor()
		endpoints, err := extractor.ExtractEndpoints(html)
		require.NoError(t, err)

		require.Len(t, endpoints, 1)
		require.Len(t, endpoints[0].Parameters, 2)

		id := endpoints[0].Parameters[0]
		assert.Equal(t, "id", id.Name)
		assert.Equal(t, apidex.InPath, id.Location)
		assert.True(t, id.Required)
		assert.Equal(t, "Charge identifier", id.Description)

		expand := endpoints[0].Parameters[1]
		assert.Equal(t, apidex.TypeArray, expand.Type)
		assert.Equal(t, apidex.InQuery, expand.Location)
		assert.False(t, expand.Required)
	})

	t.Run("infers path location from endpoint path", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<h2>DELETE /v1/customers/{customer_id}</h2>
			<table>
				<tr><th>Parameter</th><th>Type</th></tr>
				<tr><td>customer_id</td><td>string</td></tr>
				<tr><td>force</td><td>boolean</td></tr>
			</table>
		</body></html>`

		extractor := apidexquery.NewEndpointExtractor()
		endpoints, err := extractor.ExtractEndpoints(html)
		require.NoError(t, err)

		require.Len(t, endpoints, 1)
		require.Len(t, endpoints[0].Parameters, 2)
		assert.Equal(t, apidex.InPath, endpoints[0].Parameters[0].Location)
		assert.Equal(t, apidex.InQuery, endpoints[0].Parameters[1].Location)
	})

	t.Run("ignores tables without a name column", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<h2>GET /v1/rates</h2>
			<table>
				<tr><th>Plan</th><th>Price</th></tr>
				<tr><td>basic</td><td>$10</td></tr>
			</table>
		</body></html>`

		extractor := apidexquery.NewEndpointExtractor()
		endpoints, err := extractor.ExtractEndpoints(html)
		require.NoError(t, err)

		require.Len(t, endpoints, 1)
		assert.Empty(t, endpoints[0].Parameters)
	})

	t.Run("returns no endpoints for prose pages", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><h1>Welcome</h1><p>Read our guides.</p></body></html>`

		extractor := apidexquery.NewEndpointExtractor()
		endpoints, err := extractor.ExtractEndpoints(html)
		require.NoError(t, err)
		assert.Empty(t, endpoints)
	})
}
