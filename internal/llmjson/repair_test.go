package llmjson

import (
	"strconv"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionJSON(title string, order int) string {
	return `{"title": "` + title + `", "day_of_week": "monday", "duration_minutes": 45, "tasks": ["chop"], "display_order": ` + strconv.Itoa(order) + ` }`
}

func TestRepair(t *testing.T) {
	t.Run("should return well formed arrays untouched", func(t *testing.T) {
		raw := "[" + sessionJSON("Sunday batch", 1) + ",\n" + sessionJSON("Midweek top-up", 2) + "]"

		sessions, err := Repair(raw)

		require.NoError(t, err)
		require.Len(t, sessions, 2)
		assert.Equal(t, "Sunday batch", sessions[0].Title)
		assert.Equal(t, 2, sessions[1].DisplayOrder)
	})

	t.Run("should fix a stray closing bracket after a trailing field", func(t *testing.T) {
		raw := `[{"title": "Sunday batch", "display_order": 1, "notes": "chill overnight"` + "\n],\n" + sessionJSON("Midweek top-up", 2) + "]"

		sessions, err := Repair(raw)

		require.NoError(t, err)
		require.Len(t, sessions, 2)
		assert.Equal(t, "chill overnight", sessions[0].Notes)
		assert.Equal(t, "Midweek top-up", sessions[1].Title)
	})

	t.Run("should not rescue a stray bracket that also closed the array", func(t *testing.T) {
		// The substitution turns the only ] into }, leaving the array
		// unterminated, and no later strategy finds a session boundary.
		raw := `[{"title": "Sunday batch", "display_order": 1, "notes": "chill overnight"` + "\n]"

		_, err := Repair(raw)

		var exhausted *ExhaustedError
		require.ErrorAs(t, err, &exhausted)
	})

	t.Run("should recover all complete sessions when the array is unterminated", func(t *testing.T) {
		raw := "[" + sessionJSON("One", 1) + ",\n" + sessionJSON("Two", 2) + ",\n" + sessionJSON("Three", 3)

		sessions, err := Repair(raw)

		require.NoError(t, err)
		require.Len(t, sessions, 3)
		assert.Equal(t, "Three", sessions[2].Title)
	})

	t.Run("should drop an incomplete trailing session", func(t *testing.T) {
		raw := "[" + sessionJSON("One", 1) + ",\n" + sessionJSON("Two", 2) + ",\n" + `{"title": "Thr`

		sessions, err := Repair(raw)

		require.NoError(t, err)
		require.Len(t, sessions, 2)
		assert.Equal(t, "Two", sessions[1].Title)
	})

	t.Run("should truncate before the parse error when no boundary marker survives", func(t *testing.T) {
		// display_order is not the final key here, so the boundary regex
		// finds nothing and the error-offset strategy has to kick in.
		raw := `[{"title": "One", "display_order": 1, "notes": "done"},` + "\n" + `{"title": "Two", "display_order": 2, "notes": `

		sessions, err := Repair(raw)

		require.NoError(t, err)
		require.Len(t, sessions, 1)
		assert.Equal(t, "One", sessions[0].Title)
	})

	t.Run("should fail with a tagged error when nothing is recoverable", func(t *testing.T) {
		sessions, err := Repair("the model apologised instead of answering")

		assert.Nil(t, sessions)
		var exhausted *ExhaustedError
		require.ErrorAs(t, err, &exhausted)
		assert.Equal(t, "the model apologised instead of answering", exhausted.Raw)
	})

	t.Run("should cap the diagnostic payload at fifty thousand characters", func(t *testing.T) {
		_, err := Repair(strings.Repeat("x", rawLimit+500))

		var exhausted *ExhaustedError
		require.ErrorAs(t, err, &exhausted)
		assert.Len(t, exhausted.Raw, rawLimit)
	})

	t.Run("should not split a multi-byte rune when capping the payload", func(t *testing.T) {
		// Three-byte runes ensure the byte limit lands mid-rune.
		_, err := Repair(strings.Repeat("食", rawLimit))

		var exhausted *ExhaustedError
		require.ErrorAs(t, err, &exhausted)
		assert.True(t, utf8.ValidString(exhausted.Raw))
		assert.LessOrEqual(t, len(exhausted.Raw), rawLimit)
	})
}

func TestStripFences(t *testing.T) {
	t.Run("should strip a json fence", func(t *testing.T) {
		assert.Equal(t, `[{"title": "One"}]`, StripFences("```json\n[{\"title\": \"One\"}]\n```"))
	})

	t.Run("should leave bare payloads alone", func(t *testing.T) {
		assert.Equal(t, `[{"title": "One"}]`, StripFences(`[{"title": "One"}]`))
	})
}
