package builder

import "github.com/pkg/errors"

// Build errors. Returned errors wrap one of these and carry a stack trace
// (print with %+v); match them with errors.Is.
var (
	// ErrInternal signals a broken invariant between build passes.
	ErrInternal = errors.New("internal builder error")
	// ErrMissingPosition is returned for a primitive without POSITION.
	ErrMissingPosition = errors.New("primitive has no POSITION attribute")
	// ErrMalformed is returned for input the builder cannot convert.
	ErrMalformed = errors.New("malformed glTF input")
	// ErrUnknownCamera is returned for camera types other than
	// perspective and orthographic.
	ErrUnknownCamera = errors.New("unknown camera type")
	// ErrBuilderUsed is returned when Execute is called twice.
	ErrBuilderUsed = errors.New("builder already executed")
)
