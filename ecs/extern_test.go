package ecs_test

import (
	"testing"

	"github.com/plus3/surge/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHostTable(t *testing.T) *ecs.HostTable {
	t.Helper()
	table := ecs.NewHostTable()
	err := table.RegisterLib("math", map[string]any{
		"add": func(a, b float64) float64 { return a + b },
		"abs": func(a float64) float64 {
			if a < 0 {
				return -a
			}
			return a
		},
	})
	require.NoError(t, err)
	return table
}

func TestHostBindAndCall(t *testing.T) {
	table := newTestHostTable(t)

	add, err := table.Bind("math", "add", 2, 1)
	require.NoError(t, err)

	out, err := add.Call(ecs.VariantOf(1.5), ecs.VariantOf(2.5))
	require.NoError(t, err)
	require.Len(t, out, 1)

	sum, err := ecs.Cast[float64](out[0])
	require.NoError(t, err)
	assert.Equal(t, 4.0, sum)
}

func TestHostBindUnknownSymbol(t *testing.T) {
	table := newTestHostTable(t)

	var unknown *ecs.UnknownSymbolError

	_, err := table.Bind("gfx", "draw", 0, 0)
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "gfx", unknown.Lib)

	_, err = table.Bind("math", "mul", 2, 1)
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "mul", unknown.Symbol)
}

func TestHostBindArityMismatch(t *testing.T) {
	table := newTestHostTable(t)

	var unknown *ecs.UnknownSymbolError

	_, err := table.Bind("math", "add", 3, 1)
	assert.ErrorAs(t, err, &unknown)

	_, err = table.Bind("math", "add", 2, 2)
	assert.ErrorAs(t, err, &unknown)
}

func TestHostCallArgumentMismatch(t *testing.T) {
	table := newTestHostTable(t)

	abs, err := table.Bind("math", "abs", 1, 1)
	require.NoError(t, err)

	// Wrong argument type is caught before the reflect call.
	_, err = abs.Call(ecs.VariantOf("not a number"))
	var castErr *ecs.CastError
	assert.ErrorAs(t, err, &castErr)

	// Wrong argument count is also rejected.
	_, err = abs.Call()
	var unknown *ecs.UnknownSymbolError
	assert.ErrorAs(t, err, &unknown)
}

func TestHostRegisterLibValidation(t *testing.T) {
	table := ecs.NewHostTable()
	require.NoError(t, table.RegisterLib("io", map[string]any{"noop": func() {}}))

	var regErr *ecs.RegistrationError
	assert.ErrorAs(t, table.RegisterLib("io", nil), &regErr)
	assert.ErrorAs(t, table.RegisterLib("bad", map[string]any{"x": 42}), &regErr)
}
