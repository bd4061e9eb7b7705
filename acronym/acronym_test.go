package acronym

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddAndLookup(t *testing.T) {
	tbl := New()

	idx, err := tbl.Add("UNDEFINED", "undefined value", 1)
	require.NoError(t, err)
	require.Equal(t, 0, idx)
	require.Equal(t, 1, tbl.Count())

	e, ok := tbl.ByName("UNDEFINED")
	require.True(t, ok)
	require.Equal(t, 1, e.Code)

	e, ok = tbl.ByCode(1)
	require.True(t, ok)
	require.Equal(t, "UNDEFINED", e.Name)
}

func TestAddDuplicateNameSameCodeIsIdempotent(t *testing.T) {
	tbl := New()
	_, err := tbl.Add("A", "a", 5)
	require.NoError(t, err)

	idx, err := tbl.Add("A", "a", 5)
	require.NoError(t, err)
	require.Equal(t, 0, idx)
	require.Equal(t, 1, tbl.Count())
}

func TestAddConflicts(t *testing.T) {
	tbl := New()
	_, err := tbl.Add("A", "a", 5)
	require.NoError(t, err)

	_, err = tbl.Add("A", "a", 6)
	require.Error(t, err)

	_, err = tbl.Add("B", "b", 5)
	require.Error(t, err)
}

func TestResolveDisabledPreservesCode(t *testing.T) {
	tbl := New()
	got := tbl.Resolve(42)
	require.Equal(t, 42, got)
	require.Equal(t, 0, tbl.Count())
}

func TestResolveAutoGenerates(t *testing.T) {
	tbl := New()
	tbl.NextAutoAcronym = 100

	got := tbl.Resolve(42)
	require.Equal(t, 100, got)

	got2 := tbl.Resolve(7)
	require.Equal(t, 101, got2)

	e, ok := tbl.ByCode(100)
	require.True(t, ok)
	require.True(t, e.AutoGen)
	require.Equal(t, 42, e.ReadMap)
}

func TestResolveKnownCodeUnchanged(t *testing.T) {
	tbl := New()
	tbl.NextAutoAcronym = 100
	_, err := tbl.Add("KNOWN", "k", 5)
	require.NoError(t, err)

	require.Equal(t, 5, tbl.Resolve(5))
	require.Equal(t, 1, tbl.Count())
}
