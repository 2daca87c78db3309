package printer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	t.Run("returns error with title", func(t *testing.T) {
		err := Error("Generation failed", "Something went wrong", nil)
		require.Error(t, err)
		require.Equal(t, "Generation failed", err.Error())
	})

	t.Run("returns error with title when including suggestions", func(t *testing.T) {
		err := Error("Generation failed", "Explanation", []string{"Try this fix"})
		require.Error(t, err)
		require.Equal(t, "Generation failed", err.Error())
	})

	t.Run("returns error with title for multiple suggestions", func(t *testing.T) {
		err := Error("Generation failed", "Explanation", []string{
			"First option",
			"Second option",
		})
		require.Error(t, err)
		require.Equal(t, "Generation failed", err.Error())
	})
}

func TestErrorWithContext(t *testing.T) {
	context := map[string]string{
		"code":  "unknown_strategy",
		"token": "ghost",
	}
	err := ErrorWithContext("Generation failed", "Explanation", context, []string{"Fix it"})
	require.Error(t, err)
	require.Equal(t, "Generation failed", err.Error())
}

// Note: Error and ErrorWithContext print formatted output to stderr with
// colors. The returned error only carries the title for Cobra's error
// handling, which avoids duplicate output while keeping rich rendering.
