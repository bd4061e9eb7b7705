package gdx

import "github.com/gdxlib/gdx/errs"

// mode is the engine's state machine position. Every
// exported operation checks its own legal "from" set before doing any
// work, so a call outside its allowed set fails without side effects.
type mode uint8

const (
	modeClosed mode = iota
	modeWriteInit
	modeWriteDomRaw
	modeWriteDomMap
	modeWriteDomStr
	modeWriteRawData
	modeWriteMapData
	modeWriteStrData
	modeReadInit
	modeReadRaw
	modeReadMap
	modeReadMapR
	modeReadStr
	modeReadSlice
	modeRegisterRawUEL
	modeRegisterMapUEL
	modeRegisterStrUEL
	modeRegisterFilter
)

func (m mode) String() string {
	switch m {
	case modeClosed:
		return "closed"
	case modeWriteInit:
		return "write_init"
	case modeWriteDomRaw:
		return "write_dom_raw"
	case modeWriteDomMap:
		return "write_dom_map"
	case modeWriteDomStr:
		return "write_dom_str"
	case modeWriteRawData:
		return "write_raw_data"
	case modeWriteMapData:
		return "write_map_data"
	case modeWriteStrData:
		return "write_str_data"
	case modeReadInit:
		return "read_init"
	case modeReadRaw:
		return "read_raw"
	case modeReadMap:
		return "read_map"
	case modeReadMapR:
		return "read_mapr"
	case modeReadStr:
		return "read_str"
	case modeReadSlice:
		return "read_slice"
	case modeRegisterRawUEL:
		return "register_raw_uel"
	case modeRegisterMapUEL:
		return "register_map_uel"
	case modeRegisterStrUEL:
		return "register_str_uel"
	case modeRegisterFilter:
		return "register_filter"
	default:
		return "unknown"
	}
}

// lastContext records enough about the most recent failing call to make
// the sticky "bad mode" error diagnosable.
type lastContext struct {
	op   string
	from mode
}

// requireMode fails with errs.ErrBadMode unless the handle is currently
// in one of the allowed modes. It records the failing context but never
// changes f.mode itself — callers change mode explicitly after their
// own work succeeds.
func (f *File) requireMode(op string, allowed ...mode) error {
	for _, m := range allowed {
		if f.mode == m {
			return nil
		}
	}

	f.lastCtx = lastContext{op: op, from: f.mode}
	f.setError(errs.ErrBadMode)

	return errs.ErrBadMode
}
