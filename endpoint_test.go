package apidex_test

import (
	"testing"

	"github.com/mstanek/apidex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpoint_Validate(t *testing.T) {
	t.Parallel()

	valid := func() *apidex.Endpoint {
		return &apidex.Endpoint{
			APIID:  "api-1",
			Method: "GET",
			Path:   "/v1/charges",
			Parameters: []*apidex.Parameter{
				{Name: "limit", Location: apidex.InQuery, Type: apidex.TypeInteger},
			},
		}
	}

	t.Run("valid endpoint passes", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, valid().Validate())
	})

	t.Run("unknown method", func(t *testing.T) {
		t.Parallel()

		e := valid()
		e.Method = "FETCH"
		err := e.Validate()
		require.Error(t, err)
		assert.Equal(t, apidex.EINVALID, apidex.ErrorCode(err))
	})

	t.Run("path must start with slash", func(t *testing.T) {
		t.Parallel()

		e := valid()
		e.Path = "v1/charges"
		err := e.Validate()
		require.Error(t, err)
		assert.Equal(t, apidex.EINVALID, apidex.ErrorCode(err))
	})

	t.Run("invalid parameter location rejected", func(t *testing.T) {
		t.Parallel()

		e := valid()
		e.Parameters[0].Location = "cookie"
		err := e.Validate()
		require.Error(t, err)
		assert.Equal(t, apidex.EINVALID, apidex.ErrorCode(err))
	})
}

func TestValidMethod(t *testing.T) {
	t.Parallel()

	assert.True(t, apidex.ValidMethod("DELETE"))
	assert.False(t, apidex.ValidMethod("delete"), "methods are case sensitive")
	assert.False(t, apidex.ValidMethod(""))
}
