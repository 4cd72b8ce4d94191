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

func TestDeleteCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("requires force flag", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
		}

		cmd := &main.DeleteCmd{Name: "stripe"}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, apidex.EINVALID, apidex.ErrorCode(err))
		assert.Contains(t, stderr.String(), "--force")
	})

	t.Run("deletes the api with force", func(t *testing.T) {
		t.Parallel()

		deleted := ""
		apis := &mock.APIService{
			FindAPIByNameFn: func(_ context.Context, name string) (*apidex.API, error) {
				return &apidex.API{ID: "api-1", Name: name}, nil
			},
			DeleteAPIFn: func(_ context.Context, id string) error {
				deleted = id
				return nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			APIs:   apis,
		}

		cmd := &main.DeleteCmd{Name: "stripe", Force: true}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "api-1", deleted)
		assert.Contains(t, stdout.String(), "Deleted api")
	})
}
