package section

import (
	"github.com/gdxlib/gdx/errs"
	"github.com/gdxlib/gdx/format"
	"github.com/gdxlib/gdx/stream"
)

// Header is the GDX file header: the fixed magic/version/producer
// preamble plus the six section offsets that are reserved as zero at
// open and back-patched at close.
type Header struct {
	Version        int32
	Compression    int32
	ProducerSystem string
	ProducerApp    string

	SymbolTablePos   int64
	UELTablePos      int64
	SetTextPos       int64
	AcronymPos       int64
	NextWritePos     int64
	DomainStringsPos int64
}

// WriteHeader writes the fixed preamble, the byte-order probe, and
// OffsetSlotCount reserved zero int64 slots. It returns the absolute
// position of the first reserved slot, to be passed to BackPatchOffsets
// once every section's real position is known.
func WriteHeader(w *stream.Writer, h *Header) (majorIndexPos int64, err error) {
	if err := w.WriteByte(HeaderMagicByte); err != nil {
		return 0, err
	}
	if err := w.WriteTag(HeaderTag); err != nil {
		return 0, err
	}
	if err := w.WriteI32(h.Version); err != nil {
		return 0, err
	}
	if err := w.WriteI32(h.Compression); err != nil {
		return 0, err
	}
	if err := w.WriteString(h.ProducerSystem); err != nil {
		return 0, err
	}
	if err := w.WriteString(h.ProducerApp); err != nil {
		return 0, err
	}
	if err := w.WriteOrderProbe(); err != nil {
		return 0, err
	}

	majorIndexPos = w.Pos()
	for i := 0; i < OffsetSlotCount; i++ {
		if err := w.WriteI64(0); err != nil {
			return 0, err
		}
	}

	return majorIndexPos, nil
}

// BackPatchOffsets rewrites the header's reserved slot area with
// MARK_BOI followed by the six section offsets, in the order
// SlotSymbolTable..SlotDomainStrings. Each value occupies one of the ten
// reserved 64-bit slots; the remaining three stay zero.
func BackPatchOffsets(w *stream.Writer, majorIndexPos int64, h *Header) error {
	values := []int64{
		int64(format.MarkBOI),
		h.SymbolTablePos,
		h.UELTablePos,
		h.SetTextPos,
		h.AcronymPos,
		h.NextWritePos,
		h.DomainStringsPos,
	}
	for i, v := range values {
		if err := w.BackPatchI64(majorIndexPos+int64(i)*8, v); err != nil {
			return err
		}
	}

	return nil
}

// ReadHeader reads and validates the fixed preamble and byte-order
// probe, then the MARK_BOI-prefixed offset block. majorIndexPos is
// returned for callers that need to re-open the file for append.
func ReadHeader(r *stream.Reader) (h Header, majorIndexPos int64, err error) {
	magic, err := r.ReadByte()
	if err != nil {
		return h, 0, err
	}
	if magic != HeaderMagicByte {
		return h, 0, errs.ErrOpenFileHeader
	}

	tag, err := r.ReadTag(len(HeaderTag))
	if err != nil {
		return h, 0, err
	}
	if tag != HeaderTag {
		return h, 0, errs.ErrOpenFileMarker
	}

	if h.Version, err = r.ReadI32(); err != nil {
		return h, 0, err
	}
	if h.Version > format.FileVersion {
		return h, 0, errs.ErrOpenFileVersion
	}

	if h.Compression, err = r.ReadI32(); err != nil {
		return h, 0, err
	}
	if h.ProducerSystem, err = r.ReadString(); err != nil {
		return h, 0, err
	}
	if h.ProducerApp, err = r.ReadString(); err != nil {
		return h, 0, err
	}

	ok, err := r.CheckOrderProbe()
	if err != nil {
		return h, 0, err
	}
	if !ok {
		return h, 0, errs.ErrBadDataFormat
	}

	majorIndexPos = r.Pos()
	mark, err := r.ReadI64()
	if err != nil {
		return h, 0, err
	}
	if mark != int64(format.MarkBOI) {
		return h, 0, errs.ErrOpenBOI
	}

	slots := []*int64{
		&h.SymbolTablePos,
		&h.UELTablePos,
		&h.SetTextPos,
		&h.AcronymPos,
		&h.NextWritePos,
		&h.DomainStringsPos,
	}
	for _, slot := range slots {
		v, err := r.ReadI64()
		if err != nil {
			return h, 0, err
		}
		*slot = v
	}

	return h, majorIndexPos, nil
}
