// Package section implements the on-disk layout of a GDX container: the
// file header with its back-patched offset slots, the symbol table, the
// UEL/set-text/acronym/domain-strings sections, and the per-record key
// delta and value codec used inside each symbol's record stream.
package section

// Header magic bytes.
const (
	HeaderMagicByte = 0x7B
	HeaderTag       = "GAMSGDX"
)

// Section tags, written both before and after each section's body as a
// sanity bracket.
const (
	TagData = "_DATA_"
	TagSymb = "_SYMB_"
	TagSett = "_SETT_"
	TagUEL  = "_UEL_"
	TagAcro = "_ACRO_"
	TagDoms = "_DOMS_"
)

// EndOfStreamMarker terminates a symbol's record stream.
const EndOfStreamMarker = 0xFF

// OffsetSlotCount is the number of reserved 64-bit offset slots in the
// file header; only the first six are assigned meaning, the rest are
// reserved for future sections or an overflow link.
const OffsetSlotCount = 10

// Offset slot indices, in the order the header's reserved slots are
// back-patched at close.
const (
	SlotSymbolTable = iota
	SlotUELTable
	SlotSetText
	SlotAcronym
	SlotNextWrite
	SlotDomainStrings
)
