package campus

import "errors"

var (
	ErrConfigNotFound = errors.New("campus configuration not found")
	ErrConfigInvalid  = errors.New("campus configuration invalid")
)

// MissingSectionError reports a required top-level section absent from the
// document. It matches ErrConfigInvalid under errors.Is.
type MissingSectionError struct {
	Section string
}

func (e *MissingSectionError) Error() string {
	return "missing required config section: " + e.Section
}

func (e *MissingSectionError) Is(target error) bool {
	return target == ErrConfigInvalid
}
