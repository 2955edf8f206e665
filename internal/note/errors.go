package note

import "errors"

var ErrNotFound = errors.New("not found")
var ErrValidation = errors.New("validation failed")

// ErrConfirmationRequired guards destructive bulk operations that must not
// succeed from a single unqualified call.
var ErrConfirmationRequired = errors.New("confirmation required")
