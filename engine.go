// Package gdx implements the GAMS Data eXchange (GDX) binary container
// format: a self-describing file holding sparse, multi-dimensional
// symbols (sets, parameters, variables, equations, aliases) indexed by
// unique elements (UELs).
//
// A File is opened for either writing or reading; the two modes never
// mix on one handle. Writing follows the *Start/*Done pair protocol:
//
//	f, _ := gdx.Create("demand.gdx")
//	f.DataWriteRawStart("demand", 1, gdx.Parameter, 0, "demand at each node")
//	f.DataWriteRaw([]int32{1}, []float64{42})
//	f.DataWriteDone()
//	f.Close()
//
// Reading mirrors it:
//
//	f, _ := gdx.Open("demand.gdx")
//	f.DataReadRawStart(f.Symbol("demand"))
//	for {
//	    keys, values, end, _ := f.DataReadRaw()
//	    if end { break }
//	}
//	f.DataReadDone()
//	f.Close()
//
// Note: a File is NOT thread-safe and NOT reusable across independent
// concurrent calls — exactly one goroutine may drive a handle at a time.
package gdx

import (
	"fmt"
	"os"
	"strings"

	"github.com/gdxlib/gdx/acronym"
	"github.com/gdxlib/gdx/compress"
	"github.com/gdxlib/gdx/errs"
	"github.com/gdxlib/gdx/format"
	"github.com/gdxlib/gdx/internal/options"
	"github.com/gdxlib/gdx/section"
	"github.com/gdxlib/gdx/settext"
	"github.com/gdxlib/gdx/stream"
	"github.com/gdxlib/gdx/uel"
)

// File is a single open GDX container, either in a write session or a
// read session for its entire lifetime.
type File struct {
	mode    mode
	lastCtx lastContext
	lastErr error

	osFile *os.File
	writer *stream.Writer
	reader *stream.Reader
	codec  compress.Codec

	version        int32
	producerSystem string
	producerApp    string

	uelTable *uel.Table
	setText  *settext.Pool
	acro     *acronym.Table

	symbols   []*symbolEntry // dense, 1-based (symbols[i] is symbol index i+1)
	symByName map[string]int32

	specialValues [5]float64

	majorIndexPos int64
	nextWritePos  int64

	domainStrings   []string
	domainStringIdx map[string]int32

	filters   map[int]*filter
	curFilter int

	cur *symbolCursor

	appending bool

	// regReturnMode is the mode a bulk UEL registration session
	// (register_{raw,map,str}_uel) returns to on UELRegisterDone.
	regReturnMode mode
}

// Option configures a File at Create/Open time.
type Option = options.Option[*File]

// WithProducer sets the header's producer system/application identifier
// strings, grounded on gdxOpenWriteEx's
// producer parameter in the original engine.
func WithProducer(system, app string) Option {
	return options.NoError(func(f *File) {
		f.producerSystem = system
		f.producerApp = app
	})
}

// WithCompressionCodec selects the block codec used for every section
// written by this handle. The default is compress.NoopCodec.
func WithCompressionCodec(c compress.Codec) Option {
	return options.NoError(func(f *File) { f.codec = c })
}

// WithSpecialValues overrides the bit-exact special-value table used to
// classify and substitute SVUndef/SVNA/SVPosInf/SVNegInf/SVEps on record
// data. The default is format.DefaultSpecialValues().
func WithSpecialValues(table [5]float64) Option {
	return options.NoError(func(f *File) { f.specialValues = table })
}

// WithNextAutoAcronym sets the initial value of the acronym table's
// auto-generation counter: 0 (the default) disables
// read-time auto-generation of unregistered acronym codes; a positive
// value is the next code assigned to one.
func WithNextAutoAcronym(n int) Option {
	return options.NoError(func(f *File) { f.acro.NextAutoAcronym = n })
}

// OptionsFromEnv builds the Option set the classic command-line tools
// derive from the environment: GDXCOMPRESS enables the
// default zlib codec when set to "1" or "Y" (case-insensitive).
func OptionsFromEnv() []Option {
	var opts []Option
	if v := os.Getenv("GDXCOMPRESS"); v == "1" || strings.EqualFold(v, "Y") {
		opts = append(opts, WithCompressionCodec(compress.NewZlibCodec()))
	}

	return opts
}

func newFile() *File {
	return &File{
		mode:            modeClosed,
		uelTable:        uel.New(),
		setText:         settext.New(),
		acro:            acronym.New(),
		symByName:       make(map[string]int32),
		domainStringIdx: make(map[string]int32),
		filters:         make(map[int]*filter),
		specialValues:   format.DefaultSpecialValues(),
		codec:           compress.NoopCodec{},
	}
}

// Create opens path for writing, truncating any existing file.
func Create(path string, opts ...Option) (*File, error) {
	f := newFile()
	if err := options.Apply(f, opts...); err != nil {
		return nil, err
	}

	osFile, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrFileError, err)
	}
	f.osFile = osFile
	f.writer = stream.NewWriter(osFile, f.codec)
	f.version = format.FileVersion

	majorIndexPos, err := section.WriteHeader(f.writer, &section.Header{
		Version:        f.version,
		Compression:    int32(f.codec.Type()),
		ProducerSystem: f.producerSystem,
		ProducerApp:    f.producerApp,
	})
	if err != nil {
		osFile.Close()

		return nil, err
	}
	f.majorIndexPos = majorIndexPos
	f.nextWritePos = f.writer.Pos()
	f.mode = modeWriteInit

	return f, nil
}

// Open opens path for reading.
func Open(path string, opts ...Option) (*File, error) {
	f := newFile()
	if err := options.Apply(f, opts...); err != nil {
		return nil, err
	}

	osFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrFileError, err)
	}
	f.osFile = osFile
	f.reader = stream.NewReader(osFile, f.codec)

	if err := f.readAllSections(); err != nil {
		osFile.Close()

		return nil, err
	}
	f.mode = modeReadInit

	return f, nil
}

// OpenAppend opens path for continued writing: the file is read in
// full (as Open does), then the cursor is positioned at the stored
// next-write-position and the handle switches to write_init. Only format version ≥ 7 supports append; replacing an
// existing symbol is forbidden.
func OpenAppend(path string, opts ...Option) (*File, error) {
	f := newFile()
	if err := options.Apply(f, opts...); err != nil {
		return nil, err
	}

	osFile, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrFileError, err)
	}
	f.osFile = osFile
	f.reader = stream.NewReader(osFile, f.codec)

	if err := f.readAllSections(); err != nil {
		osFile.Close()

		return nil, err
	}
	if f.version < 7 {
		osFile.Close()

		return nil, errs.ErrFileTooOldForAppend
	}

	f.reader.Close()
	f.reader = nil
	f.writer = stream.NewWriter(osFile, f.codec)
	if err := f.writer.Seek(f.nextWritePos); err != nil {
		osFile.Close()

		return nil, err
	}
	f.appending = true
	f.mode = modeWriteInit

	return f, nil
}

// readAllSections reads the header and every fixed section (symbol
// table, UEL table, set-text pool, acronym table, domain strings) in
// one pass, populating f's tables. Shared by Open and OpenAppend.
func (f *File) readAllSections() error {
	h, _, err := section.ReadHeader(f.reader)
	if err != nil {
		return err
	}
	f.version = h.Version
	f.producerSystem = h.ProducerSystem
	f.producerApp = h.ProducerApp
	f.nextWritePos = h.NextWritePos

	if err := f.reader.Seek(h.SymbolTablePos); err != nil {
		return err
	}
	entries, err := section.ReadSymbolTable(f.reader)
	if err != nil {
		return err
	}
	f.symbols = make([]*symbolEntry, len(entries))
	for i, e := range entries {
		se := &symbolEntry{
			SymbolInfo: SymbolInfo{
				Name:            e.Name,
				Dim:             int(e.Dim),
				DataType:        e.DataType,
				UserInfo:        e.UserInfo,
				RecordCount:     e.RecordCount,
				ErrorCount:      e.ErrorCount,
				ExplanatoryText: e.ExplanatoryText,
				HasSetText:      e.HasSetText,
				Compressed:      e.Compressed,
			},
			RecordPos:     e.RecordPos,
			DomainSymbols: e.DomainSymbols,
			Comments:      e.Comments,
		}
		if e.DataType == format.Alias {
			se.AliasTarget = e.UserInfo
		}
		f.symbols[i] = se
		f.symByName[strings.ToUpper(e.Name)] = int32(i + 1)
	}

	if err := f.reader.Seek(h.UELTablePos); err != nil {
		return err
	}
	if f.uelTable, err = section.ReadUELTable(f.reader); err != nil {
		return err
	}

	if err := f.reader.Seek(h.SetTextPos); err != nil {
		return err
	}
	if f.setText, err = section.ReadSetTextPool(f.reader); err != nil {
		return err
	}

	if err := f.reader.Seek(h.AcronymPos); err != nil {
		return err
	}
	if f.acro, err = section.ReadAcronymTable(f.reader); err != nil {
		return err
	}

	if err := f.reader.Seek(h.DomainStringsPos); err != nil {
		return err
	}
	doms, err := section.ReadDomainStrings(f.reader, func(symIdx int32) int {
		return f.symbols[symIdx-1].Dim
	})
	if err != nil {
		return err
	}
	f.domainStrings = doms.Strings
	for _, sym := range doms.Symbols {
		f.symbols[sym.SymbolIndex-1].DomainStrings = sym.Refs
	}

	return nil
}

// Close flushes and releases the handle's file descriptor. In write
// mode, every fixed section is emitted and the header's reserved
// offset slots are back-patched.
func (f *File) Close() error {
	if err := f.requireMode("close", modeWriteInit, modeReadInit, modeClosed); err != nil {
		return err
	}
	if f.mode == modeClosed {
		return nil
	}

	if f.writer != nil {
		if err := f.flushSections(); err != nil {
			return err
		}
		if err := f.writer.Close(); err != nil {
			return err
		}
	}
	if f.reader != nil {
		if err := f.reader.Close(); err != nil {
			return err
		}
	}

	f.mode = modeClosed

	return nil
}

// flushSections writes the symbol table and the four fixed tables,
// then back-patches the header's reserved offset slots.
func (f *File) flushSections() error {
	symPos := f.writer.Pos()
	entries := make([]section.SymbolEntry, len(f.symbols))
	for i, se := range f.symbols {
		userInfo := se.UserInfo
		if se.DataType == format.Alias {
			userInfo = se.AliasTarget
		}
		entries[i] = section.SymbolEntry{
			Name:            se.Name,
			RecordPos:       se.RecordPos,
			Dim:             int32(se.Dim),
			DataType:        se.DataType,
			UserInfo:        userInfo,
			RecordCount:     se.RecordCount,
			ErrorCount:      se.ErrorCount,
			HasSetText:      se.HasSetText,
			ExplanatoryText: se.ExplanatoryText,
			Compressed:      se.Compressed,
			DomainSymbols:   se.DomainSymbols,
			Comments:        se.Comments,
		}
	}
	if err := section.WriteSymbolTable(f.writer, entries); err != nil {
		return err
	}

	uelPos := f.writer.Pos()
	if err := section.WriteUELTable(f.writer, f.uelTable); err != nil {
		return err
	}

	setTextPos := f.writer.Pos()
	if err := section.WriteSetTextPool(f.writer, f.setText); err != nil {
		return err
	}

	acroPos := f.writer.Pos()
	if err := section.WriteAcronymTable(f.writer, f.acro); err != nil {
		return err
	}

	domsPos := f.writer.Pos()
	var domRefs []section.SymbolDomainStrings
	for i, se := range f.symbols {
		if se.DomainStrings != nil {
			domRefs = append(domRefs, section.SymbolDomainStrings{SymbolIndex: int32(i + 1), Refs: se.DomainStrings})
		}
	}
	domSection := section.DomainStringsSection{Strings: f.domainStrings, Symbols: domRefs}
	if err := section.WriteDomainStrings(f.writer, domSection); err != nil {
		return err
	}

	nextWritePos := f.writer.Pos()

	return section.BackPatchOffsets(f.writer, f.majorIndexPos, &section.Header{
		SymbolTablePos:   symPos,
		UELTablePos:      uelPos,
		SetTextPos:       setTextPos,
		AcronymPos:       acroPos,
		NextWritePos:     nextWritePos,
		DomainStringsPos: domsPos,
	})
}

// LastError returns the handle's sticky last-error code and clears it.
func (f *File) LastError() errs.Code {
	code := errs.CodeOf(f.lastErr)
	f.lastErr = nil

	return code
}

func (f *File) setError(err error) {
	if f.lastErr == nil {
		f.lastErr = err
	}
}

// ResetSpecialValues restores the default special-value bit patterns.
func (f *File) ResetSpecialValues() {
	f.specialValues = format.DefaultSpecialValues()
}

// NumSymbols returns the number of registered symbols.
func (f *File) NumSymbols() int { return len(f.symbols) }

// Symbol returns the 1-based symbol index for name, or 0 if unregistered.
func (f *File) Symbol(name string) int32 {
	return f.symByName[strings.ToUpper(name)]
}

// SymbolInfo returns the public descriptor for the given 1-based symbol
// index.
func (f *File) SymbolInfo(symIdx int32) (SymbolInfo, error) {
	if symIdx < 1 || int(symIdx) > len(f.symbols) {
		return SymbolInfo{}, errs.ErrBadSymbolIndex
	}

	return f.symbols[symIdx-1].SymbolInfo, nil
}

// AddSymbolComment appends a free-form comment to a symbol's comment
// list.
func (f *File) AddSymbolComment(symIdx int32, text string) error {
	if symIdx < 1 || int(symIdx) > len(f.symbols) {
		return errs.ErrNoSymbolForComment
	}
	f.symbols[symIdx-1].Comments = append(f.symbols[symIdx-1].Comments, text)

	return nil
}

// sanitizeExplanatoryText collapses mixed quote characters to the
// first one seen and replaces control characters with '?'.
func sanitizeExplanatoryText(s string) string {
	var quote rune
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r == '\'' || r == '"':
			if quote == 0 {
				quote = r
			}
			out = append(out, quote)
		case r < 0x20 || r == 0x7F:
			out = append(out, '?')
		default:
			out = append(out, r)
		}
	}

	return string(out)
}
