package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hvqdigital/agenda-console/backend/pkg/utils"
)

func TestFirstString(t *testing.T) {
	t.Run("returns the first non-empty candidate in priority order", func(t *testing.T) {
		rec := utils.RawRecord{"codigo": "fallback", "codigo_edificio": "B1"}

		assert.Equal(t, "B1", utils.FirstString(rec, "codigo_edificio", "codigo"))
	})

	t.Run("skips missing, nil and empty values", func(t *testing.T) {
		rec := utils.RawRecord{"a": nil, "b": "", "c": "  ", "d": "value"}

		assert.Equal(t, "value", utils.FirstString(rec, "a", "b", "c", "d"))
	})

	t.Run("returns empty when nothing matches", func(t *testing.T) {
		assert.Equal(t, "", utils.FirstString(utils.RawRecord{}, "a", "b"))
	})
}

func TestFirstBool(t *testing.T) {
	t.Run("reads native booleans", func(t *testing.T) {
		value, ok := utils.FirstBool(utils.RawRecord{"activo": false}, "activo")

		assert.True(t, ok)
		assert.False(t, value)
	})

	t.Run("parses string and numeric booleans", func(t *testing.T) {
		value, ok := utils.FirstBool(utils.RawRecord{"disponible": "true"}, "disponible")
		assert.True(t, ok)
		assert.True(t, value)

		value, ok = utils.FirstBool(utils.RawRecord{"disponible": float64(0)}, "disponible")
		assert.True(t, ok)
		assert.False(t, value)
	})

	t.Run("reports no match", func(t *testing.T) {
		_, ok := utils.FirstBool(utils.RawRecord{"other": "x"}, "disponible")

		assert.False(t, ok)
	})
}

func TestStringify(t *testing.T) {
	t.Run("keeps integral JSON numbers free of a decimal tail", func(t *testing.T) {
		assert.Equal(t, "3", utils.Stringify(float64(3)))
	})

	t.Run("preserves fractional numbers", func(t *testing.T) {
		assert.Equal(t, "3.5", utils.Stringify(float64(3.5)))
	})

	t.Run("trims strings", func(t *testing.T) {
		assert.Equal(t, "B1", utils.Stringify("  B1  "))
	})

	t.Run("renders nil as empty", func(t *testing.T) {
		assert.Equal(t, "", utils.Stringify(nil))
	})
}
