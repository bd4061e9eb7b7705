package section

import (
	"github.com/gdxlib/gdx/acronym"
	"github.com/gdxlib/gdx/errs"
	"github.com/gdxlib/gdx/settext"
	"github.com/gdxlib/gdx/stream"
	"github.com/gdxlib/gdx/uel"
)

// WriteUELTable writes the bracketed _UEL_ section: every UEL string in
// internal order.
func WriteUELTable(w *stream.Writer, t *uel.Table) error {
	if err := w.WriteTag(TagUEL); err != nil {
		return err
	}
	n := t.Count()
	if err := w.WriteI32(int32(n)); err != nil {
		return err
	}
	for i := 1; i <= n; i++ {
		if err := w.WriteString(t.String(i)); err != nil {
			return err
		}
	}

	return w.WriteTag(TagUEL)
}

// ReadUELTable reads the bracketed _UEL_ section into a fresh table, in
// internal order (internal index i gets user value i, the identity
// mapping used until the client overrides it with registered UELs).
func ReadUELTable(r *stream.Reader) (*uel.Table, error) {
	tag, err := r.ReadTag(len(TagUEL))
	if err != nil {
		return nil, err
	}
	if tag != TagUEL {
		return nil, errs.ErrOpenUELMarker1
	}

	n, err := r.ReadI32()
	if err != nil {
		return nil, err
	}

	t := uel.New()
	for i := int32(0); i < n; i++ {
		s, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		t.AddWithUserMap(s, i+1)
	}

	tag, err = r.ReadTag(len(TagUEL))
	if err != nil {
		return nil, err
	}
	if tag != TagUEL {
		return nil, errs.ErrOpenUELMarker2
	}

	return t, nil
}

// WriteSetTextPool writes the bracketed _SETT_ section.
func WriteSetTextPool(w *stream.Writer, p *settext.Pool) error {
	if err := w.WriteTag(TagSett); err != nil {
		return err
	}
	n := p.Count()
	if err := w.WriteI32(int32(n)); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := w.WriteString(p.Get(i)); err != nil {
			return err
		}
	}

	return w.WriteTag(TagSett)
}

// ReadSetTextPool reads the bracketed _SETT_ section into a fresh pool.
// Slot 0 (the reserved empty string) is already present in a new pool,
// so the on-disk slot 0 (also the empty string) is consumed but not
// re-added.
func ReadSetTextPool(r *stream.Reader) (*settext.Pool, error) {
	tag, err := r.ReadTag(len(TagSett))
	if err != nil {
		return nil, err
	}
	if tag != TagSett {
		return nil, errs.ErrOpenTextMarker1
	}

	n, err := r.ReadI32()
	if err != nil {
		return nil, err
	}

	p := settext.New()
	for i := int32(0); i < n; i++ {
		s, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		if i == 0 {
			continue
		}
		p.Add(s)
	}

	tag, err = r.ReadTag(len(TagSett))
	if err != nil {
		return nil, err
	}
	if tag != TagSett {
		return nil, errs.ErrOpenTextMarker2
	}

	return p, nil
}

// WriteAcronymTable writes the bracketed _ACRO_ section.
func WriteAcronymTable(w *stream.Writer, t *acronym.Table) error {
	if err := w.WriteTag(TagAcro); err != nil {
		return err
	}
	n := t.Count()
	if err := w.WriteI32(int32(n)); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		e, _ := t.Get(i)
		if err := w.WriteString(e.Name); err != nil {
			return err
		}
		if err := w.WriteString(e.Text); err != nil {
			return err
		}
		if err := w.WriteI32(int32(e.Code)); err != nil {
			return err
		}
	}

	return w.WriteTag(TagAcro)
}

// ReadAcronymTable reads the bracketed _ACRO_ section into a fresh table.
func ReadAcronymTable(r *stream.Reader) (*acronym.Table, error) {
	tag, err := r.ReadTag(len(TagAcro))
	if err != nil {
		return nil, err
	}
	if tag != TagAcro {
		return nil, errs.ErrOpenAcroMarker1
	}

	n, err := r.ReadI32()
	if err != nil {
		return nil, err
	}

	t := acronym.New()
	for i := int32(0); i < n; i++ {
		name, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		text, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		code, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		if _, err := t.Add(name, text, int(code)); err != nil {
			return nil, err
		}
	}

	tag, err = r.ReadTag(len(TagAcro))
	if err != nil {
		return nil, err
	}
	if tag != TagAcro {
		return nil, errs.ErrOpenAcroMarker2
	}

	return t, nil
}
