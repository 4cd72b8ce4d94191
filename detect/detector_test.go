package detect_test

import (
	"context"
	"testing"

	"github.com/mstanek/apidex"
	"github.com/mstanek/apidex/detect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func detectQuirks(t *testing.T, endpoints []*apidex.Endpoint, existing []*apidex.Quirk) []*apidex.Quirk {
	t.Helper()

	d := detect.NewDetector()
	api := &apidex.API{ID: "api-1", Name: "stripe"}

	quirks, err := d.DetectQuirks(context.Background(), api, endpoints, existing)
	require.NoError(t, err)
	return quirks
}

func findQuirk(quirks []*apidex.Quirk, category apidex.QuirkCategory) *apidex.Quirk {
	for _, q := range quirks {
		if q.Category == category {
			return q
		}
	}
	return nil
}

func TestDetector_DetectQuirks(t *testing.T) {
	t.Parallel()

	t.Run("flags integer money fields as minor currency units", func(t *testing.T) {
		t.Parallel()

		quirks := detectQuirks(t, []*apidex.Endpoint{
			{
				ID: "ep-1", Method: "POST", Path: "/v1/charges",
				Parameters: []*apidex.Parameter{
					{Name: "amount", Location: apidex.InBody, Type: apidex.TypeInteger, Example: "2000"},
				},
			},
		}, nil)

		quirk := findQuirk(quirks, apidex.QuirkCurrencyMinorUnits)
		require.NotNil(t, quirk)
		assert.Equal(t, "api-1", quirk.APIID)
		assert.Equal(t, "ep-1", quirk.EndpointID)
		assert.Equal(t, "amount", quirk.Field)
		assert.Equal(t, apidex.SeverityWarning, quirk.Severity)
		assert.Equal(t, apidex.DetectedDetector, quirk.DetectedBy)
		assert.Equal(t, "2000", quirk.Example)
	})

	t.Run("ignores string money fields for currency rule", func(t *testing.T) {
		t.Parallel()

		quirks := detectQuirks(t, []*apidex.Endpoint{
			{
				ID: "ep-1",
				Parameters: []*apidex.Parameter{
					{Name: "amount_formatted", Type: apidex.TypeString, Example: "$20.00"},
				},
			},
		}, nil)

		assert.Nil(t, findQuirk(quirks, apidex.QuirkCurrencyMinorUnits))
	})

	t.Run("flags numeric string examples on number-named fields", func(t *testing.T) {
		t.Parallel()

		quirks := detectQuirks(t, []*apidex.Endpoint{
			{
				ID: "ep-1",
				Parameters: []*apidex.Parameter{
					{Name: "total", Type: apidex.TypeString, Example: "129.95"},
				},
			},
		}, nil)

		quirk := findQuirk(quirks, apidex.QuirkStringEncodedNumber)
		require.NotNil(t, quirk)
		assert.Equal(t, "total", quirk.Field)
		assert.Equal(t, apidex.SeverityWarning, quirk.Severity)
	})

	t.Run("flags epoch timestamps on time fields", func(t *testing.T) {
		t.Parallel()

		quirks := detectQuirks(t, []*apidex.Endpoint{
			{
				ID: "ep-1",
				Parameters: []*apidex.Parameter{
					{Name: "created_at", Type: apidex.TypeInteger, Example: "1714521600"},
					{Name: "expiresAt", Type: apidex.TypeInteger, Example: "1714521600000"},
				},
			},
		}, nil)

		count := 0
		for _, q := range quirks {
			if q.Category == apidex.QuirkEpochTimestamp {
				count++
				assert.Equal(t, apidex.SeverityInfo, q.Severity)
			}
		}
		assert.Equal(t, 2, count, "seconds and milliseconds ranges both flagged")
	})

	t.Run("does not flag small integers on time-like names", func(t *testing.T) {
		t.Parallel()

		quirks := detectQuirks(t, []*apidex.Endpoint{
			{
				ID: "ep-1",
				Parameters: []*apidex.Parameter{
					{Name: "timeout", Type: apidex.TypeInteger, Example: "30"},
				},
			},
		}, nil)

		assert.Nil(t, findQuirk(quirks, apidex.QuirkEpochTimestamp))
	})

	t.Run("does not flag fields merely ending in at", func(t *testing.T) {
		t.Parallel()

		quirks := detectQuirks(t, []*apidex.Endpoint{
			{
				ID: "ep-1",
				Parameters: []*apidex.Parameter{
					{Name: "format", Type: apidex.TypeInteger, Example: "1714521600"},
				},
			},
		}, nil)

		assert.Nil(t, findQuirk(quirks, apidex.QuirkEpochTimestamp))
	})

	t.Run("flags non-RFC3339 date strings", func(t *testing.T) {
		t.Parallel()

		quirks := detectQuirks(t, []*apidex.Endpoint{
			{
				ID: "ep-1",
				Parameters: []*apidex.Parameter{
					{Name: "start_date", Type: apidex.TypeString, Example: "03/31/2024"},
				},
			},
		}, nil)

		quirk := findQuirk(quirks, apidex.QuirkNonstandardDate)
		require.NotNil(t, quirk)
		assert.Equal(t, "start_date", quirk.Field)
	})

	t.Run("accepts RFC3339 and plain ISO dates", func(t *testing.T) {
		t.Parallel()

		quirks := detectQuirks(t, []*apidex.Endpoint{
			{
				ID: "ep-1",
				Parameters: []*apidex.Parameter{
					{Name: "start_date", Type: apidex.TypeString, Example: "2024-03-31T12:00:00Z"},
					{Name: "end_date", Type: apidex.TypeString, Example: "2024-03-31"},
				},
			},
		}, nil)

		assert.Nil(t, findQuirk(quirks, apidex.QuirkNonstandardDate))
	})

	t.Run("flags mixed casing within one endpoint", func(t *testing.T) {
		t.Parallel()

		quirks := detectQuirks(t, []*apidex.Endpoint{
			{
				ID: "ep-1",
				Parameters: []*apidex.Parameter{
					{Name: "user_id", Type: apidex.TypeString},
					{Name: "pageSize", Type: apidex.TypeInteger},
				},
			},
		}, nil)

		quirk := findQuirk(quirks, apidex.QuirkInconsistentCasing)
		require.NotNil(t, quirk)
		assert.Equal(t, "ep-1", quirk.EndpointID)
		assert.Empty(t, quirk.Field, "casing quirk is endpoint-level")
		assert.Contains(t, quirk.Description, "user_id")
		assert.Contains(t, quirk.Description, "pageSize")
	})

	t.Run("consistent casing is not flagged", func(t *testing.T) {
		t.Parallel()

		quirks := detectQuirks(t, []*apidex.Endpoint{
			{
				ID: "ep-1",
				Parameters: []*apidex.Parameter{
					{Name: "user_id", Type: apidex.TypeString},
					{Name: "page_size", Type: apidex.TypeInteger},
				},
			},
		}, nil)

		assert.Nil(t, findQuirk(quirks, apidex.QuirkInconsistentCasing))
	})

	t.Run("flags cursor pagination parameters", func(t *testing.T) {
		t.Parallel()

		quirks := detectQuirks(t, []*apidex.Endpoint{
			{
				ID: "ep-1",
				Parameters: []*apidex.Parameter{
					{Name: "cursor", Location: apidex.InQuery, Type: apidex.TypeString},
				},
			},
		}, nil)

		quirk := findQuirk(quirks, apidex.QuirkPagination)
		require.NotNil(t, quirk)
		assert.Equal(t, "cursor", quirk.Field)
	})

	t.Run("suppresses duplicates against existing quirks", func(t *testing.T) {
		t.Parallel()

		existing := []*apidex.Quirk{
			{
				APIID:      "api-1",
				EndpointID: "ep-1",
				Field:      "amount",
				Category:   apidex.QuirkCurrencyMinorUnits,
			},
		}

		quirks := detectQuirks(t, []*apidex.Endpoint{
			{
				ID: "ep-1",
				Parameters: []*apidex.Parameter{
					{Name: "amount", Type: apidex.TypeInteger, Example: "2000"},
				},
			},
		}, existing)

		assert.Nil(t, findQuirk(quirks, apidex.QuirkCurrencyMinorUnits))
	})

	t.Run("same field on different endpoints reported separately", func(t *testing.T) {
		t.Parallel()

		quirks := detectQuirks(t, []*apidex.Endpoint{
			{
				ID: "ep-1",
				Parameters: []*apidex.Parameter{
					{Name: "amount", Type: apidex.TypeInteger},
				},
			},
			{
				ID: "ep-2",
				Parameters: []*apidex.Parameter{
					{Name: "amount", Type: apidex.TypeInteger},
				},
			},
		}, nil)

		count := 0
		for _, q := range quirks {
			if q.Category == apidex.QuirkCurrencyMinorUnits {
				count++
			}
		}
		assert.Equal(t, 2, count)
	})

	t.Run("requires an api", func(t *testing.T) {
		t.Parallel()

		d := detect.NewDetector()
		_, err := d.DetectQuirks(context.Background(), nil, nil, nil)

		require.Error(t, err)
		assert.Equal(t, apidex.EINVALID, apidex.ErrorCode(err))
	})
}
