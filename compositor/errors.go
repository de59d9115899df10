package compositor

import "errors"

var (
	ErrMissingHierarchy  = errors.New("compositor: no voxel hierarchy")
	ErrMissingPrimary    = errors.New("compositor: incomplete primary capture")
	ErrMissingSource     = errors.New("compositor: no source frame")
	ErrFrameSizeMismatch = errors.New("compositor: frame size mismatch")
	ErrNoOutput          = errors.New("compositor: pipeline produced no output")
)
