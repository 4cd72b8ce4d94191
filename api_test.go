package apidex_test

import (
	"testing"

	"github.com/mstanek/apidex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPI_Validate(t *testing.T) {
	t.Parallel()

	t.Run("valid api passes", func(t *testing.T) {
		t.Parallel()

		api := &apidex.API{
			Name:     "stripe",
			DocsURL:  "https://docs.stripe.com",
			AuthType: apidex.AuthBearer,
		}
		require.NoError(t, api.Validate())
	})

	t.Run("missing name", func(t *testing.T) {
		t.Parallel()

		api := &apidex.API{DocsURL: "https://docs.stripe.com", AuthType: apidex.AuthBearer}
		err := api.Validate()
		require.Error(t, err)
		assert.Equal(t, apidex.EINVALID, apidex.ErrorCode(err))
	})

	t.Run("missing docs URL", func(t *testing.T) {
		t.Parallel()

		api := &apidex.API{Name: "stripe", AuthType: apidex.AuthBearer}
		err := api.Validate()
		require.Error(t, err)
		assert.Equal(t, apidex.EINVALID, apidex.ErrorCode(err))
	})

	t.Run("unknown auth type", func(t *testing.T) {
		t.Parallel()

		api := &apidex.API{Name: "stripe", DocsURL: "https://docs.stripe.com", AuthType: "magic"}
		err := api.Validate()
		require.Error(t, err)
		assert.Equal(t, apidex.EINVALID, apidex.ErrorCode(err))
	})
}

func TestAuthType_Valid(t *testing.T) {
	t.Parallel()

	for _, a := range []apidex.AuthType{
		apidex.AuthBearer, apidex.AuthAPIKey, apidex.AuthOAuth2,
		apidex.AuthBasic, apidex.AuthNone,
	} {
		assert.True(t, a.Valid(), string(a))
	}
	assert.False(t, apidex.AuthType("jwt-ish").Valid())
}
