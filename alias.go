package gdx

import (
	"github.com/gdxlib/gdx/errs"
	"github.com/gdxlib/gdx/format"
)

// AddAlias declares name2 as an alias of name1 (or vice versa — exactly
// one of the two must already name a registered Set, an existing alias,
// or "*" for the universe, mirroring gdxAddAlias in gxfile.cpp). It
// returns the new alias's 1-based symbol index.
func (f *File) AddAlias(name1, name2 string) (int32, error) {
	if err := f.requireMode("add_alias", modeWriteInit); err != nil {
		return 0, err
	}

	idx1, univ1, found1 := aliasLookup(f, name1)
	idx2, univ2, found2 := aliasLookup(f, name2)
	if (found1 || univ1) == (found2 || univ2) {
		f.setError(errs.ErrAliasSetExpected)

		return 0, errs.ErrAliasSetExpected
	}

	var targetIdx int32
	var newName string
	if found1 || univ1 {
		targetIdx, newName = idx1, name2
		if univ1 {
			targetIdx = 0
		}
	} else {
		targetIdx, newName = idx2, name1
		if univ2 {
			targetIdx = 0
		}
	}

	explTxt := "Aliased with *"
	dim := 1
	if targetIdx != 0 {
		target := f.symbols[targetIdx-1]
		if target.DataType != format.Set && target.DataType != format.Alias {
			f.setError(errs.ErrAliasSetExpected)

			return 0, errs.ErrAliasSetExpected
		}
		dim = target.Dim
		explTxt = "Aliased with " + target.Name
	}

	cur, err := f.beginSymbolWrite(newName, dim, format.Alias, targetIdx, explTxt)
	if err != nil {
		return 0, err
	}
	cur.entry.AliasTarget = targetIdx

	return cur.symIdx, nil
}

// aliasLookup resolves name to a symbol index. univ is true for "*"
// (the universe, which carries no concrete symbol index); found is true
// when name already names a registered symbol.
func aliasLookup(f *File, name string) (idx int32, univ bool, found bool) {
	if name == "*" {
		return 0, true, false
	}
	idx = f.Symbol(name)

	return idx, false, idx != 0
}
