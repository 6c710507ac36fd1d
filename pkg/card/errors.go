package card

import "errors"

// ErrNoFace is returned when no face anchor is available to position a crop.
var ErrNoFace = errors.New("no face detected")

// ErrEmptyRegion is returned when a derived crop window has zero area.
// It means "nothing extractable here", not a hard failure.
var ErrEmptyRegion = errors.New("empty card region")
