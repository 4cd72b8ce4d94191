package apidex_test

import (
	"testing"

	"github.com/mstanek/apidex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkflow_Validate(t *testing.T) {
	t.Parallel()

	valid := func() *apidex.Workflow {
		return &apidex.Workflow{
			Name: "charge-and-notify",
			Steps: []*apidex.WorkflowStep{
				{APIID: "api-1", Position: 1, Operation: "create charge"},
				{APIID: "api-2", Position: 2, Operation: "send email"},
			},
		}
	}

	t.Run("valid workflow passes", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, valid().Validate())
	})

	t.Run("requires a name", func(t *testing.T) {
		t.Parallel()

		w := valid()
		w.Name = ""
		assert.Equal(t, apidex.EINVALID, apidex.ErrorCode(w.Validate()))
	})

	t.Run("requires at least one step", func(t *testing.T) {
		t.Parallel()

		w := valid()
		w.Steps = nil
		assert.Equal(t, apidex.EINVALID, apidex.ErrorCode(w.Validate()))
	})

	t.Run("positions must be dense", func(t *testing.T) {
		t.Parallel()

		w := valid()
		w.Steps[1].Position = 5
		assert.Equal(t, apidex.EINVALID, apidex.ErrorCode(w.Validate()))
	})

	t.Run("positions must be unique", func(t *testing.T) {
		t.Parallel()

		w := valid()
		w.Steps[1].Position = 1
		assert.Equal(t, apidex.EINVALID, apidex.ErrorCode(w.Validate()))
	})

	t.Run("step requires an operation", func(t *testing.T) {
		t.Parallel()

		w := valid()
		w.Steps[0].Operation = ""
		assert.Equal(t, apidex.EINVALID, apidex.ErrorCode(w.Validate()))
	})
}

func TestRelationship_Validate(t *testing.T) {
	t.Parallel()

	t.Run("valid relationship passes", func(t *testing.T) {
		t.Parallel()

		r := &apidex.Relationship{APIID: "a", RelatedAPIID: "b", Kind: apidex.RelAlternative}
		require.NoError(t, r.Validate())
	})

	t.Run("rejects self relationship", func(t *testing.T) {
		t.Parallel()

		r := &apidex.Relationship{APIID: "a", RelatedAPIID: "a", Kind: apidex.RelComplement}
		assert.Equal(t, apidex.EINVALID, apidex.ErrorCode(r.Validate()))
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		t.Parallel()

		r := &apidex.Relationship{APIID: "a", RelatedAPIID: "b", Kind: "friend"}
		assert.Equal(t, apidex.EINVALID, apidex.ErrorCode(r.Validate()))
	})
}

func TestQuirk_Validate(t *testing.T) {
	t.Parallel()

	t.Run("valid quirk passes", func(t *testing.T) {
		t.Parallel()

		q := &apidex.Quirk{
			APIID:       "api-1",
			Field:       "amount",
			Category:    apidex.QuirkCurrencyMinorUnits,
			Severity:    apidex.SeverityWarning,
			Description: "amounts are integer cents",
		}
		require.NoError(t, q.Validate())
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		t.Parallel()

		q := &apidex.Quirk{APIID: "api-1", Category: "weird", Severity: apidex.SeverityInfo, Description: "x"}
		assert.Equal(t, apidex.EINVALID, apidex.ErrorCode(q.Validate()))
	})

	t.Run("requires description", func(t *testing.T) {
		t.Parallel()

		q := &apidex.Quirk{APIID: "api-1", Category: apidex.QuirkOther, Severity: apidex.SeverityInfo}
		assert.Equal(t, apidex.EINVALID, apidex.ErrorCode(q.Validate()))
	})
}
