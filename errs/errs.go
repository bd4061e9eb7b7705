// Package errs enumerates the sentinel errors returned by the gdx engine
// and its supporting packages, together with the legacy numeric Code used
// by the handle's sticky last-error slot.
//
// Callers should use errors.Is/errors.As against the sentinels below;
// Code exists only for compatibility with the GDX API's historical
// "get last error number" contract.
package errs

import "errors"

// Code is the legacy numeric error identifier surfaced by (*gdx.File).LastError.
type Code int

// Error kinds, grouped by the area of the engine that raises them.
var (
	ErrNoFile               = errors.New("gdx: no file")
	ErrFileError             = errors.New("gdx: file error")
	ErrBadMode               = errors.New("gdx: bad mode")
	ErrBadDimension          = errors.New("gdx: bad dimension")
	ErrBadSymbolIndex        = errors.New("gdx: bad symbol index")
	ErrDuplicateSymbol       = errors.New("gdx: duplicate symbol")
	ErrDataNotSorted         = errors.New("gdx: data not sorted")
	ErrDataDuplicate         = errors.New("gdx: duplicate data record")
	ErrBadUELString          = errors.New("gdx: bad UEL string")
	ErrUndefUEL              = errors.New("gdx: undefined UEL")
	ErrUELConflict           = errors.New("gdx: UEL user-map conflict")
	ErrBadFilterNr           = errors.New("gdx: bad filter number")
	ErrBadFilterIndex        = errors.New("gdx: bad filter index")
	ErrFilterUnmapped        = errors.New("gdx: filter unmapped UEL")
	ErrRawNotSorted          = errors.New("gdx: raw data not sorted")
	ErrBadDataMarkerData     = errors.New("gdx: bad data marker (data)")
	ErrBadDataMarkerDim      = errors.New("gdx: bad data marker (dimension)")
	ErrOpenBOI               = errors.New("gdx: bad beginning-of-index marker")
	ErrOpenFileHeader        = errors.New("gdx: bad file header")
	ErrOpenFileVersion       = errors.New("gdx: file version not supported")
	ErrOpenFileMarker        = errors.New("gdx: bad file marker")
	ErrOpenSymbolMarker1     = errors.New("gdx: bad symbol table start marker")
	ErrOpenSymbolMarker2     = errors.New("gdx: bad symbol table end marker")
	ErrOpenUELMarker1        = errors.New("gdx: bad UEL table start marker")
	ErrOpenUELMarker2        = errors.New("gdx: bad UEL table end marker")
	ErrOpenTextMarker1       = errors.New("gdx: bad set-text start marker")
	ErrOpenTextMarker2       = errors.New("gdx: bad set-text end marker")
	ErrOpenAcroMarker1       = errors.New("gdx: bad acronym table start marker")
	ErrOpenAcroMarker2       = errors.New("gdx: bad acronym table end marker")
	ErrOpenDomsMarker1       = errors.New("gdx: bad domain-strings start marker")
	ErrOpenDomsMarker2       = errors.New("gdx: bad domain-strings end marker")
	ErrOpenDomsMarker3       = errors.New("gdx: bad domain-strings terminator")
	ErrBadDataFormat         = errors.New("gdx: bad data format")
	ErrOutOfMemory           = errors.New("gdx: out of memory")
	ErrZlibNotFound          = errors.New("gdx: zlib not found")
	ErrBadAcroIndex          = errors.New("gdx: bad acronym index")
	ErrBadAcroNumber         = errors.New("gdx: bad acronym number")
	ErrBadAcroName           = errors.New("gdx: bad acronym name")
	ErrAcroDupeMap           = errors.New("gdx: acronym code already mapped")
	ErrAcroBadAddition       = errors.New("gdx: cannot add acronym")
	ErrUnknownDomain         = errors.New("gdx: unknown domain")
	ErrBadDomain             = errors.New("gdx: bad domain")
	ErrNoDomainData          = errors.New("gdx: no domain data")
	ErrAliasSetExpected      = errors.New("gdx: alias target must be a set")
	ErrBadDataType           = errors.New("gdx: bad data type")
	ErrNoSymbolForComment    = errors.New("gdx: no symbol for comment")
	ErrDomainViolation       = errors.New("gdx: domain violation")
	ErrFileAlreadyOpen       = errors.New("gdx: file already open")
	ErrFileTooOldForAppend   = errors.New("gdx: file too old for append")
)

// codes maps each sentinel to its legacy numeric code. Values are
// arbitrary but stable within this library; they exist only so a caller
// can branch on a Code without importing the sentinel set.
var codes = map[error]Code{
	ErrNoFile:             1,
	ErrFileError:          2,
	ErrBadMode:            3,
	ErrBadDimension:       4,
	ErrBadSymbolIndex:     5,
	ErrDuplicateSymbol:    6,
	ErrDataNotSorted:      7,
	ErrDataDuplicate:      8,
	ErrBadUELString:       9,
	ErrUndefUEL:           10,
	ErrUELConflict:        11,
	ErrBadFilterNr:        12,
	ErrBadFilterIndex:     13,
	ErrFilterUnmapped:     14,
	ErrRawNotSorted:       15,
	ErrBadDataMarkerData:  16,
	ErrBadDataMarkerDim:   17,
	ErrOpenBOI:            18,
	ErrOpenFileHeader:     19,
	ErrOpenFileVersion:    20,
	ErrOpenFileMarker:     21,
	ErrOpenSymbolMarker1:  22,
	ErrOpenSymbolMarker2:  23,
	ErrOpenUELMarker1:     24,
	ErrOpenUELMarker2:     25,
	ErrOpenTextMarker1:    26,
	ErrOpenTextMarker2:    27,
	ErrOpenAcroMarker1:    28,
	ErrOpenAcroMarker2:    29,
	ErrOpenDomsMarker1:    30,
	ErrOpenDomsMarker2:    31,
	ErrOpenDomsMarker3:    32,
	ErrBadDataFormat:      33,
	ErrOutOfMemory:        34,
	ErrZlibNotFound:       35,
	ErrBadAcroIndex:       36,
	ErrBadAcroNumber:      37,
	ErrBadAcroName:        38,
	ErrAcroDupeMap:        39,
	ErrAcroBadAddition:    40,
	ErrUnknownDomain:      41,
	ErrBadDomain:          42,
	ErrNoDomainData:       43,
	ErrAliasSetExpected:   44,
	ErrBadDataType:        45,
	ErrNoSymbolForComment: 46,
	ErrDomainViolation:    47,
	ErrFileAlreadyOpen:    48,
	ErrFileTooOldForAppend: 49,
}

// CodeOf returns the legacy numeric code for err, walking err's chain with
// errors.Is against the known sentinels. It returns 0 if err is nil and -1
// if err does not match any known sentinel.
func CodeOf(err error) Code {
	if err == nil {
		return 0
	}
	for sentinel, code := range codes {
		if errors.Is(err, sentinel) {
			return code
		}
	}

	return -1
}
