package section

import (
	"math"

	"github.com/gdxlib/gdx/errs"
	"github.com/gdxlib/gdx/format"
	"github.com/gdxlib/gdx/stream"
)

// indexInitial seeds a record codec's "last key" state with a value no
// real UEL index can equal, so the first record of a non-scalar symbol
// always takes the general (not the compact single-byte) encoding path.
const indexInitial = -256

// elemWidth is the narrowest integer width sufficient to hold one
// dimension's (max-min+1) range.
type elemWidth byte

const (
	widthByte elemWidth = iota
	widthWord
	widthI32
)

func elemWidthFor(rangeSize int64) elemWidth {
	switch {
	case rangeSize > 0 && rangeSize <= 255:
		return widthByte
	case rangeSize > 0 && rangeSize <= 65535:
		return widthWord
	default:
		return widthI32
	}
}

// WriteRecordStreamHeader writes a symbol's "_DATA_" preamble: the tag,
// dimension byte, record count, and per-dimension (min, max) bounds.
func WriteRecordStreamHeader(w *stream.Writer, dim int, recordCount int32, minElem, maxElem []int32) error {
	if err := w.WriteTag(TagData); err != nil {
		return err
	}
	if err := w.WriteByte(byte(dim)); err != nil {
		return err
	}
	if err := w.WriteI32(recordCount); err != nil {
		return err
	}
	for d := 0; d < dim; d++ {
		if err := w.WriteI32(minElem[d]); err != nil {
			return err
		}
		if err := w.WriteI32(maxElem[d]); err != nil {
			return err
		}
	}

	return nil
}

// ReadRecordStreamHeader reads a symbol's "_DATA_" preamble.
func ReadRecordStreamHeader(r *stream.Reader) (dim int, recordCount int32, minElem, maxElem []int32, err error) {
	tag, err := r.ReadTag(len(TagData))
	if err != nil {
		return 0, 0, nil, nil, err
	}
	if tag != TagData {
		return 0, 0, nil, nil, errs.ErrBadDataMarkerData
	}

	dimByte, err := r.ReadByte()
	if err != nil {
		return 0, 0, nil, nil, err
	}
	dim = int(dimByte)

	if recordCount, err = r.ReadI32(); err != nil {
		return 0, 0, nil, nil, err
	}

	minElem = make([]int32, dim)
	maxElem = make([]int32, dim)
	for d := 0; d < dim; d++ {
		if minElem[d], err = r.ReadI32(); err != nil {
			return 0, 0, nil, nil, err
		}
		if maxElem[d], err = r.ReadI32(); err != nil {
			return 0, 0, nil, nil, err
		}
	}

	return dim, recordCount, minElem, maxElem, nil
}

// RecordWriter encodes successive records of one symbol's record stream:
// the first-differing-dimension key delta codec plus the per-value
// classifier byte.
type RecordWriter struct {
	w   *stream.Writer
	dim int

	minElem       []int32
	elemType      []elemWidth
	deltaForWrite int32
	lastElem      []int32

	specialValues [5]float64
	onAcronym     func(code int)

	count int
}

// NewRecordWriter creates a codec for a symbol of the given dimension and
// per-dimension (min, max) bounds. onAcronym, if non-nil, is called with
// the integer code whenever a written value is recognized as an acronym
// reference (value >= format.AcronymScale), so the caller can register
// it if not already known.
func NewRecordWriter(w *stream.Writer, dim int, minElem, maxElem []int32, specialValues [5]float64, onAcronym func(code int)) *RecordWriter {
	elemType := make([]elemWidth, dim)
	for d := 0; d < dim; d++ {
		elemType[d] = elemWidthFor(int64(maxElem[d]) - int64(minElem[d]) + 1)
	}

	lastElem := make([]int32, dim)
	for d := range lastElem {
		lastElem[d] = indexInitial
	}

	return &RecordWriter{
		w:             w,
		dim:           dim,
		minElem:       minElem,
		elemType:      elemType,
		deltaForWrite: int32(255 - dim - 1),
		lastElem:      lastElem,
		specialValues: specialValues,
		onAcronym:     onAcronym,
	}
}

// WriteRecord encodes one record. It returns errs.ErrDataDuplicate if
// keys equal the previous record's key (only possible for dim > 0), or
// errs.ErrRawNotSorted if keys are out of order in the first differing
// dimension.
func (rw *RecordWriter) WriteRecord(keys []int32, values []float64) error {
	fd := rw.dim + 1
	var delta int32
	for d := 0; d < rw.dim; d++ {
		if delta = keys[d] - rw.lastElem[d]; delta != 0 {
			fd = d + 1
			break
		}
	}

	if fd > rw.dim {
		if rw.dim > 0 && rw.count >= 1 {
			return errs.ErrDataDuplicate
		}
		if err := rw.w.WriteByte(1); err != nil {
			return err
		}
	} else {
		if delta < 0 {
			return errs.ErrRawNotSorted
		}
		if fd == rw.dim && delta <= rw.deltaForWrite {
			if err := rw.w.WriteByte(byte(int32(rw.dim) + delta)); err != nil {
				return err
			}
			rw.lastElem[rw.dim-1] = keys[rw.dim-1]
		} else {
			if err := rw.w.WriteByte(byte(fd)); err != nil {
				return err
			}
			for d := fd - 1; d < rw.dim; d++ {
				v := keys[d] - rw.minElem[d]
				if err := rw.writeSizedInt(rw.elemType[d], v); err != nil {
					return err
				}
				rw.lastElem[d] = keys[d]
			}
		}
	}

	for _, v := range values {
		sv := format.ClassifyFromBits(v, rw.specialValues)
		if err := rw.w.WriteByte(byte(sv)); err != nil {
			return err
		}
		if sv == format.SVNone {
			if err := rw.w.WriteF64(v); err != nil {
				return err
			}
			if v >= format.AcronymScale && rw.onAcronym != nil {
				rw.onAcronym(int(math.Round(v / format.AcronymScale)))
			}
		}
	}

	rw.count++

	return nil
}

func (rw *RecordWriter) writeSizedInt(width elemWidth, v int32) error {
	switch width {
	case widthByte:
		return rw.w.WriteByte(byte(v))
	case widthWord:
		return rw.w.WriteU16(uint16(v))
	default:
		return rw.w.WriteI32(v)
	}
}

// WriteEndOfStream writes the record-stream terminator byte.
func (rw *RecordWriter) WriteEndOfStream() error {
	return rw.w.WriteByte(EndOfStreamMarker)
}

// RecordReader is the read-side counterpart of RecordWriter.
type RecordReader struct {
	r   *stream.Reader
	dim int

	minElem  []int32
	elemType []elemWidth
	lastElem []int32

	specialValues  [5]float64
	resolveAcronym func(code int) int
}

// NewRecordReader creates a codec matching the dimension and bounds
// written by WriteRecordStreamHeader. resolveAcronym, if non-nil,
// remaps a decoded acronym code through the acronym table (auto-
// generating an entry for an unregistered code, matching gdxGetNumber's
// handling of an unrecognized acronym value in gxfile.cpp).
func NewRecordReader(r *stream.Reader, dim int, minElem, maxElem []int32, specialValues [5]float64, resolveAcronym func(code int) int) *RecordReader {
	elemType := make([]elemWidth, dim)
	for d := 0; d < dim; d++ {
		elemType[d] = elemWidthFor(int64(maxElem[d]) - int64(minElem[d]) + 1)
	}

	return &RecordReader{
		r:              r,
		dim:            dim,
		minElem:        minElem,
		elemType:       elemType,
		lastElem:       make([]int32, dim),
		specialValues:  specialValues,
		resolveAcronym: resolveAcronym,
	}
}

// ReadRecord decodes the next record into keys/values, both sized to
// dim/valueCount by the caller. end is true when the stream terminator
// was read instead of a record.
func (rr *RecordReader) ReadRecord(keys []int32, values []float64) (end bool, err error) {
	b, err := rr.r.ReadByte()
	if err != nil {
		return false, err
	}
	if b == EndOfStreamMarker {
		return true, nil
	}

	if int(b) > rr.dim {
		delta := int32(b) - int32(rr.dim)
		if rr.dim > 0 {
			rr.lastElem[rr.dim-1] += delta
		}
	} else {
		fd := int(b)
		for d := fd - 1; d < rr.dim; d++ {
			v, err := rr.readSizedInt(rr.elemType[d])
			if err != nil {
				return false, err
			}
			rr.lastElem[d] = v + rr.minElem[d]
		}
	}
	copy(keys, rr.lastElem)

	for i := range values {
		svByte, err := rr.r.ReadByte()
		if err != nil {
			return false, err
		}
		if svByte == byte(format.SVNone) {
			v, err := rr.r.ReadF64()
			if err != nil {
				return false, err
			}
			if v >= format.AcronymScale && rr.resolveAcronym != nil {
				code := rr.resolveAcronym(int(math.Round(v / format.AcronymScale)))
				v = float64(code) * format.AcronymScale
			}
			values[i] = v
		} else {
			values[i] = rr.specialValues[svByte-1]
		}
	}

	return false, nil
}

func (rr *RecordReader) readSizedInt(width elemWidth) (int32, error) {
	switch width {
	case widthByte:
		b, err := rr.r.ReadByte()

		return int32(b), err
	case widthWord:
		wv, err := rr.r.ReadU16()

		return int32(wv), err
	default:
		return rr.r.ReadI32()
	}
}
