package gdx

import (
	"strings"

	"github.com/gdxlib/gdx/errs"
	"github.com/gdxlib/gdx/format"
)

// UELRegisterRawStart begins bulk registration of UELs in raw mode:
// each string is appended to the table and assigned the next internal
// index by the system. Only legal
// while writing, grounded on gdxUELRegisterRawStart's fw_init-only
// requirement.
func (f *File) UELRegisterRawStart() error {
	if err := f.requireMode("uel_register_raw_start", modeWriteInit); err != nil {
		return err
	}
	f.regReturnMode = modeWriteInit
	f.mode = modeRegisterRawUEL

	return nil
}

// UELRegisterRaw registers one UEL string in raw mode.
func (f *File) UELRegisterRaw(s string) error {
	if err := f.requireMode("uel_register_raw", modeRegisterRawUEL); err != nil {
		return err
	}

	trimmed := strings.TrimRight(s, " ")
	if !validUELString(trimmed) {
		f.setError(errs.ErrBadUELString)

		return errs.ErrBadUELString
	}
	f.uelTable.Add(trimmed)

	return nil
}

// UELRegisterStrStart begins bulk registration of UELs in string mode,
// legal from either write_init or read_init: each string is assigned
// the next available user index, and registering the same string twice
// returns the same index rather than an error.
func (f *File) UELRegisterStrStart() error {
	if err := f.requireMode("uel_register_str_start", modeWriteInit, modeReadInit); err != nil {
		return err
	}
	f.regReturnMode = f.mode
	f.mode = modeRegisterStrUEL

	return nil
}

// UELRegisterStr registers s and returns its user-space index.
func (f *File) UELRegisterStr(s string) (int32, error) {
	if err := f.requireMode("uel_register_str", modeRegisterStrUEL); err != nil {
		return 0, err
	}

	trimmed := strings.TrimRight(s, " ")
	if !validUELString(trimmed) {
		f.setError(errs.ErrBadUELString)

		return 0, errs.ErrBadUELString
	}
	internal := f.uelTable.IndexOf(trimmed)
	if internal < 0 {
		internal = f.uelTable.Add(trimmed)
	}

	return f.uelTable.NewUserUEL(internal), nil
}

// UELRegisterMapStart begins bulk registration of UELs with caller-
// chosen user indices, legal from either write_init or read_init.
func (f *File) UELRegisterMapStart() error {
	if err := f.requireMode("uel_register_map_start", modeWriteInit, modeReadInit); err != nil {
		return err
	}
	f.regReturnMode = f.mode
	f.mode = modeRegisterMapUEL

	return nil
}

// UELRegisterMap registers s under the caller-chosen user index
// userMap. Registering the same (userMap, s) pair twice is not an
// error; assigning a different string to an already-used userMap is
// errs.ErrUELConflict.
func (f *File) UELRegisterMap(userMap int32, s string) error {
	if err := f.requireMode("uel_register_map", modeRegisterMapUEL); err != nil {
		return err
	}

	trimmed := strings.TrimRight(s, " ")
	if !validUELString(trimmed) {
		f.setError(errs.ErrBadUELString)

		return errs.ErrBadUELString
	}
	if f.uelTable.AddWithUserMap(trimmed, userMap) < 0 {
		f.setError(errs.ErrUELConflict)

		return errs.ErrUELConflict
	}

	return nil
}

// UELRegisterDone ends bulk UEL registration, returning the handle to
// whichever of write_init/read_init was active when the matching
// *Start call was made.
func (f *File) UELRegisterDone() error {
	if err := f.requireMode("uel_register_done",
		modeRegisterRawUEL, modeRegisterMapUEL, modeRegisterStrUEL); err != nil {
		return err
	}
	f.mode = f.regReturnMode

	return nil
}

// validUELString enforces the same shape a symbol name does: non-empty
// and no longer than format.MaxUELLen.
func validUELString(s string) bool {
	return len(s) > 0 && len(s) <= format.MaxUELLen
}
