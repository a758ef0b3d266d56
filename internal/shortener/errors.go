package shortener

import "errors"

// ErrNotFound is returned when no mapping exists for a short code.
var ErrNotFound = errors.New("mapping not found")

// ErrCodeTaken is reported by a Repository when an insert lost the uniqueness
// race on short_code. Callers retry with a fresh code.
var ErrCodeTaken = errors.New("short code already taken")

// ErrCodeSpaceExhausted is returned when every generation attempt collided.
var ErrCodeSpaceExhausted = errors.New("unable to generate unique short code")
