package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/mstanek/apidex"
	main "github.com/mstanek/apidex/cmd/apidex"
	"github.com/mstanek/apidex/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("shows api details and relationships", func(t *testing.T) {
		t.Parallel()

		apis := &mock.APIService{
			FindAPIByNameFn: func(_ context.Context, name string) (*apidex.API, error) {
				return &apidex.API{
					ID:           "api-1",
					Name:         name,
					BaseURL:      "https://api.stripe.com",
					DocsURL:      "https://docs.stripe.com/api",
					AuthType:     apidex.AuthBearer,
					PricingModel: apidex.PricingPerCall,
					Status:       apidex.APIActive,
				}, nil
			},
		}
		relationships := &mock.RelationshipService{
			FindRelationshipsFn: func(_ context.Context, _ apidex.RelationshipFilter) ([]*apidex.Relationship, error) {
				return []*apidex.Relationship{
					{APIID: "api-1", APIName: "stripe", RelatedAPIID: "api-2", RelatedAPIName: "braintree", Kind: apidex.RelAlternative},
				}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:           context.Background(),
			Stdout:        stdout,
			Stderr:        &bytes.Buffer{},
			APIs:          apis,
			Relationships: relationships,
		}

		cmd := &main.ShowCmd{Name: "stripe"}

		err := cmd.Run(deps)

		require.NoError(t, err)
		output := stdout.String()
		assert.Contains(t, output, "stripe")
		assert.Contains(t, output, "https://docs.stripe.com/api")
		assert.Contains(t, output, "bearer")
		assert.Contains(t, output, "braintree (alternative)")
	})

	t.Run("unknown api prints a hint", func(t *testing.T) {
		t.Parallel()

		apis := &mock.APIService{
			FindAPIByNameFn: func(_ context.Context, name string) (*apidex.API, error) {
				return nil, apidex.Errorf(apidex.ENOTFOUND, "api %q not found", name)
			},
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			APIs:   apis,
		}

		cmd := &main.ShowCmd{Name: "nope"}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, apidex.ENOTFOUND, apidex.ErrorCode(err))
		assert.Contains(t, stderr.String(), "apidex list")
	})
}
