package apidex_test

import (
	"testing"

	"github.com/mstanek/apidex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSections(t *testing.T) {
	t.Parallel()

	t.Run("extracts headings with anchors", func(t *testing.T) {
		t.Parallel()

		markdown := "# Charges API\n\ntext\n\n## Create a Charge\n\n## Create a Charge\n"
		sections := apidex.ExtractSections(markdown)
		require.Len(t, sections, 3)

		assert.Equal(t, 1, sections[0].Level)
		assert.Equal(t, "charges-api", sections[0].Anchor)
		assert.Equal(t, "create-a-charge", sections[1].Anchor)
		assert.Equal(t, "create-a-charge-1", sections[2].Anchor, "duplicate headings get numeric suffixes")
	})

	t.Run("ignores headings inside code blocks", func(t *testing.T) {
		t.Parallel()

		markdown := "# Real\n\n```\n# not a heading\n```\n"
		sections := apidex.ExtractSections(markdown)
		require.Len(t, sections, 1)
		assert.Equal(t, "Real", sections[0].Title)
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, apidex.ExtractSections(""))
	})
}
