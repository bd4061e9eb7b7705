package section

import (
	"fmt"

	"github.com/gdxlib/gdx/errs"
	"github.com/gdxlib/gdx/format"
	"github.com/gdxlib/gdx/stream"
)

// SymbolEntry is one symbol table row.
type SymbolEntry struct {
	Name          string
	RecordPos     int64
	Dim           int32
	DataType      format.DataType
	UserInfo      int32
	RecordCount   int32
	ErrorCount    int32
	HasSetText    bool
	ExplanatoryText string
	Compressed    bool
	DomainSymbols []int32 // per-dimension referenced symbol index; nil if none
	Comments      []string
}

// WriteSymbolTable writes the bracketed _SYMB_ section.
func WriteSymbolTable(w *stream.Writer, entries []SymbolEntry) error {
	if err := w.WriteTag(TagSymb); err != nil {
		return err
	}
	if err := w.WriteI32(int32(len(entries))); err != nil {
		return err
	}

	for _, e := range entries {
		if err := writeSymbolEntry(w, e); err != nil {
			return err
		}
	}

	return w.WriteTag(TagSymb)
}

func writeSymbolEntry(w *stream.Writer, e SymbolEntry) error {
	if err := w.WriteString(e.Name); err != nil {
		return err
	}
	if err := w.WriteI64(e.RecordPos); err != nil {
		return err
	}
	if err := w.WriteI32(e.Dim); err != nil {
		return err
	}
	if err := w.WriteByte(byte(e.DataType)); err != nil {
		return err
	}
	if err := w.WriteI32(e.UserInfo); err != nil {
		return err
	}
	if err := w.WriteI32(e.RecordCount); err != nil {
		return err
	}
	if err := w.WriteI32(e.ErrorCount); err != nil {
		return err
	}
	if err := w.WriteByte(boolByte(e.HasSetText)); err != nil {
		return err
	}
	if err := w.WriteString(e.ExplanatoryText); err != nil {
		return err
	}
	if err := w.WriteByte(boolByte(e.Compressed)); err != nil {
		return err
	}

	if err := w.WriteByte(boolByte(e.DomainSymbols != nil)); err != nil {
		return err
	}
	if e.DomainSymbols != nil {
		for _, sym := range e.DomainSymbols {
			if err := w.WriteI32(sym); err != nil {
				return err
			}
		}
	}

	if err := w.WriteI32(int32(len(e.Comments))); err != nil {
		return err
	}
	for _, c := range e.Comments {
		if err := w.WriteString(c); err != nil {
			return err
		}
	}

	return nil
}

// ReadSymbolTable reads the bracketed _SYMB_ section.
func ReadSymbolTable(r *stream.Reader) ([]SymbolEntry, error) {
	tag, err := r.ReadTag(len(TagSymb))
	if err != nil {
		return nil, err
	}
	if tag != TagSymb {
		return nil, errs.ErrOpenSymbolMarker1
	}

	n, err := r.ReadI32()
	if err != nil {
		return nil, err
	}

	entries := make([]SymbolEntry, n)
	for i := range entries {
		e, err := readSymbolEntry(r)
		if err != nil {
			return nil, err
		}
		entries[i] = e
	}

	tag, err = r.ReadTag(len(TagSymb))
	if err != nil {
		return nil, err
	}
	if tag != TagSymb {
		return nil, errs.ErrOpenSymbolMarker2
	}

	return entries, nil
}

func readSymbolEntry(r *stream.Reader) (SymbolEntry, error) {
	var e SymbolEntry
	var err error

	if e.Name, err = r.ReadString(); err != nil {
		return e, err
	}
	if e.RecordPos, err = r.ReadI64(); err != nil {
		return e, err
	}
	if e.Dim, err = r.ReadI32(); err != nil {
		return e, err
	}

	dt, err := r.ReadByte()
	if err != nil {
		return e, err
	}
	e.DataType = format.DataType(dt)

	if e.UserInfo, err = r.ReadI32(); err != nil {
		return e, err
	}
	if e.RecordCount, err = r.ReadI32(); err != nil {
		return e, err
	}
	if e.ErrorCount, err = r.ReadI32(); err != nil {
		return e, err
	}

	b, err := r.ReadByte()
	if err != nil {
		return e, err
	}
	e.HasSetText = b != 0

	if e.ExplanatoryText, err = r.ReadString(); err != nil {
		return e, err
	}

	b, err = r.ReadByte()
	if err != nil {
		return e, err
	}
	e.Compressed = b != 0

	b, err = r.ReadByte()
	if err != nil {
		return e, err
	}
	if b != 0 {
		e.DomainSymbols = make([]int32, e.Dim)
		for d := range e.DomainSymbols {
			if e.DomainSymbols[d], err = r.ReadI32(); err != nil {
				return e, err
			}
		}
	}

	commentCount, err := r.ReadI32()
	if err != nil {
		return e, err
	}
	if commentCount < 0 || int(commentCount) > maxReasonableCommentCount {
		return e, fmt.Errorf("%w: comment count %d", errs.ErrBadDataFormat, commentCount)
	}
	if commentCount > 0 {
		e.Comments = make([]string, commentCount)
		for i := range e.Comments {
			if e.Comments[i], err = r.ReadString(); err != nil {
				return e, err
			}
		}
	}

	return e, nil
}

// maxReasonableCommentCount guards against reading a corrupt length
// prefix as a huge allocation request.
const maxReasonableCommentCount = 1 << 20

func boolByte(b bool) byte {
	if b {
		return 1
	}

	return 0
}
