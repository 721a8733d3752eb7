package directory

import "errors"

// ErrSpecialistNotFound is returned for unknown ids when the store runs
// with StrictNotFound. Otherwise such operations are silent no-ops.
var ErrSpecialistNotFound = errors.New("specialist not found")

// ErrUnknownCategory is returned when a specialist is added to a category
// outside the fixed catalog.
var ErrUnknownCategory = errors.New("unknown category")
