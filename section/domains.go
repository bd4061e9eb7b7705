package section

import (
	"github.com/gdxlib/gdx/errs"
	"github.com/gdxlib/gdx/stream"
)

// SymbolDomainStrings names, for one symbol, the 1-based index into the
// domain-strings pool for each dimension that carries a relaxed (string)
// domain reference; 0 means no string for that dimension.
type SymbolDomainStrings struct {
	SymbolIndex int32
	Refs        []int32
}

// DomainStringsSection is the bracketed _DOMS_ section: a shared pool of
// relaxed-domain strings, followed by each symbol's per-dimension
// references into that pool.
type DomainStringsSection struct {
	Strings []string
	Symbols []SymbolDomainStrings
}

// WriteDomainStrings writes the bracketed _DOMS_ section, including its
// internal -1-terminated per-symbol reference list.
func WriteDomainStrings(w *stream.Writer, s DomainStringsSection) error {
	if err := w.WriteTag(TagDoms); err != nil {
		return err
	}
	if err := w.WriteI32(int32(len(s.Strings))); err != nil {
		return err
	}
	for _, str := range s.Strings {
		if err := w.WriteString(str); err != nil {
			return err
		}
	}
	if err := w.WriteTag(TagDoms); err != nil {
		return err
	}

	for _, sym := range s.Symbols {
		if err := w.WriteI32(sym.SymbolIndex); err != nil {
			return err
		}
		for _, ref := range sym.Refs {
			if err := w.WriteI32(ref); err != nil {
				return err
			}
		}
	}
	if err := w.WriteI32(-1); err != nil {
		return err
	}

	return w.WriteTag(TagDoms)
}

// ReadDomainStrings reads the bracketed _DOMS_ section. dimOf resolves a
// 1-based symbol index to its dimension, so the fixed-width per-symbol
// reference list can be read without a length prefix.
func ReadDomainStrings(r *stream.Reader, dimOf func(symbolIndex int32) int) (DomainStringsSection, error) {
	var s DomainStringsSection

	tag, err := r.ReadTag(len(TagDoms))
	if err != nil {
		return s, err
	}
	if tag != TagDoms {
		return s, errs.ErrOpenDomsMarker1
	}

	n, err := r.ReadI32()
	if err != nil {
		return s, err
	}
	s.Strings = make([]string, n)
	for i := range s.Strings {
		if s.Strings[i], err = r.ReadString(); err != nil {
			return s, err
		}
	}

	tag, err = r.ReadTag(len(TagDoms))
	if err != nil {
		return s, err
	}
	if tag != TagDoms {
		return s, errs.ErrOpenDomsMarker2
	}

	for {
		symIdx, err := r.ReadI32()
		if err != nil {
			return s, err
		}
		if symIdx == -1 {
			break
		}

		refs := make([]int32, dimOf(symIdx))
		for d := range refs {
			if refs[d], err = r.ReadI32(); err != nil {
				return s, err
			}
		}
		s.Symbols = append(s.Symbols, SymbolDomainStrings{SymbolIndex: symIdx, Refs: refs})
	}

	tag, err = r.ReadTag(len(TagDoms))
	if err != nil {
		return s, err
	}
	if tag != TagDoms {
		return s, errs.ErrOpenDomsMarker3
	}

	return s, nil
}
