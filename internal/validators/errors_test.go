package validators

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	t.Run("empty collector yields nil error", func(t *testing.T) {
		var c Collector
		assert.False(t, c.HasErrors())
		assert.NoError(t, c.Err())
	})

	t.Run("collected errors surface as one ValidationError", func(t *testing.T) {
		var c Collector
		c.Add("options", CodeRequired, "options list must contain at least one entry")
		c.AddAll([]FieldError{{Field: "options[0].name", Code: CodeDuplicateNames, Message: "dup"}})

		err := c.Err()
		require.Error(t, err)

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		require.Len(t, verr.Errors, 2)
		assert.True(t, verr.HasCode(CodeRequired))
		assert.True(t, verr.HasCode(CodeDuplicateNames))
		assert.False(t, verr.HasCode(CodeWrongPathway))
	})
}

func TestValidationErrorMessage(t *testing.T) {
	verr := &ValidationError{Errors: []FieldError{
		{Field: "options[2].id", Code: CodeWrongPathway, Message: "option 9 belongs to pathway 4"},
		{Field: "options", Code: CodeNodesNotFound, Message: "toll node(s) not found: 11"},
	}}

	msg := verr.Error()
	assert.Contains(t, msg, "validation failed")
	assert.Contains(t, msg, "options[2].id")
	assert.Contains(t, msg, CodeWrongPathway)
	assert.Contains(t, msg, CodeNodesNotFound)
}

func TestJoinIDs(t *testing.T) {
	assert.Equal(t, "", JoinIDs(nil))
	assert.Equal(t, "3", JoinIDs([]uint{3}))
	assert.Equal(t, "3, 17, 5", JoinIDs([]uint{3, 17, 5}))
}
