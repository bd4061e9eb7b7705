package gdx

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gdxlib/gdx/errs"
	"github.com/gdxlib/gdx/format"
)

func TestAddAliasOfSet(t *testing.T) {
	f, err := Create(tempGDXPath(t))
	require.NoError(t, err)
	writeSimpleSet(t, f, "i", []string{"a", "b"})

	idx, err := f.AddAlias("i", "j")
	require.NoError(t, err)

	info, err := f.SymbolInfo(idx)
	require.NoError(t, err)
	require.Equal(t, format.Alias, info.DataType)
	require.EqualValues(t, 1, info.AliasTarget)
	require.Equal(t, 1, info.Dim)
}

func TestAddAliasOrderIndependent(t *testing.T) {
	f, err := Create(tempGDXPath(t))
	require.NoError(t, err)
	writeSimpleSet(t, f, "i", []string{"a"})

	idx, err := f.AddAlias("j", "i")
	require.NoError(t, err)
	info, err := f.SymbolInfo(idx)
	require.NoError(t, err)
	require.EqualValues(t, 1, info.AliasTarget)
}

func TestAddAliasOfUniverse(t *testing.T) {
	f, err := Create(tempGDXPath(t))
	require.NoError(t, err)

	idx, err := f.AddAlias("*", "u")
	require.NoError(t, err)

	info, err := f.SymbolInfo(idx)
	require.NoError(t, err)
	require.Equal(t, format.Alias, info.DataType)
	require.EqualValues(t, 0, info.AliasTarget)
	require.Equal(t, 1, info.Dim)
}

func TestAddAliasRejectsTwoUnknownNames(t *testing.T) {
	f, err := Create(tempGDXPath(t))
	require.NoError(t, err)

	_, err = f.AddAlias("unknown1", "unknown2")
	require.ErrorIs(t, err, errs.ErrAliasSetExpected)
}

func TestAddAliasRejectsTwoKnownNames(t *testing.T) {
	f, err := Create(tempGDXPath(t))
	require.NoError(t, err)
	writeSimpleSet(t, f, "i", []string{"a"})
	writeSimpleSet(t, f, "j", []string{"b"})

	_, err = f.AddAlias("i", "j")
	require.ErrorIs(t, err, errs.ErrAliasSetExpected)
}

func TestAddAliasRejectsNonSetTarget(t *testing.T) {
	f, err := Create(tempGDXPath(t))
	require.NoError(t, err)

	require.NoError(t, f.DataWriteRawStart("p", 1, Parameter, 0, "a parameter"))
	require.NoError(t, f.SetDomain([]string{"*"}))
	require.NoError(t, f.DataWriteRaw([]int32{1}, []float64{1}))
	require.NoError(t, f.DataWriteDone())

	_, err = f.AddAlias("p", "q")
	require.ErrorIs(t, err, errs.ErrAliasSetExpected)
}

func TestAddAliasOfAliasChain(t *testing.T) {
	f, err := Create(tempGDXPath(t))
	require.NoError(t, err)
	writeSimpleSet(t, f, "i", []string{"a"})

	j, err := f.AddAlias("i", "j")
	require.NoError(t, err)

	k, err := f.AddAlias("j", "k")
	require.NoError(t, err)

	info, err := f.SymbolInfo(k)
	require.NoError(t, err)
	require.EqualValues(t, j, info.AliasTarget)
}
