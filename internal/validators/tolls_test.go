package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codesOf(errs []FieldError) []string {
	codes := make([]string, len(errs))
	for i, e := range errs {
		codes[i] = e.Code
	}
	return codes
}

func TestCheckTollNodes(t *testing.T) {
	t.Run("clean list passes", func(t *testing.T) {
		assert.Empty(t, CheckTollNodes("options[0].tolls", []uint{1, 2, 3}))
	})

	t.Run("empty and single-entry lists pass", func(t *testing.T) {
		assert.Empty(t, CheckTollNodes("tolls", nil))
		assert.Empty(t, CheckTollNodes("tolls", []uint{7}))
	})

	t.Run("non-adjacent duplicate reports DUPLICATE_NODES only", func(t *testing.T) {
		errs := CheckTollNodes("options[1].tolls", []uint{4, 5, 4})
		require.Len(t, errs, 1)
		assert.Equal(t, CodeDuplicateNodes, errs[0].Code)
		assert.Equal(t, "options[1].tolls", errs[0].Field)
		assert.Contains(t, errs[0].Message, "4")
	})

	t.Run("adjacent duplicate reports both conditions", func(t *testing.T) {
		errs := CheckTollNodes("tolls", []uint{4, 4, 5})
		assert.ElementsMatch(t, []string{CodeDuplicateNodes, CodeConsecutiveDuplicates}, codesOf(errs))
	})

	t.Run("each duplicated node reported once", func(t *testing.T) {
		errs := CheckTollNodes("tolls", []uint{1, 1, 1, 2, 2})
		require.Len(t, errs, 2)
		assert.Contains(t, errs[0].Message, "1, 2")
		assert.Contains(t, errs[1].Message, "1, 2")
	})
}
